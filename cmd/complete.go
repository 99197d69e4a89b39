package cmd

import (
	"flag"

	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// args predicts the positional arguments of some commands.
var args = map[string]complete.Predictor{
	"export": predict.Set{"accounts", "transactions"},
	"list":   predict.Set{"accounts", "transactions", "extras"},
}

// flagPredictors predicts the value of flags by name, others take any value.
var flagPredictors = map[string]complete.Predictor{
	"data-dir": predict.Dirs("*"),
	"o":        predict.Files("*.csv"),
	"p":        predict.Set{"daily", "weekly", "monthly", "quarterly", "yearly"},
}

// Completion returns the shell completion of the application, for the global
// flags of fs and every command.
func Completion(fs *flag.FlagSet) *complete.Command {
	root := &complete.Command{
		Sub:   make(map[string]*complete.Command),
		Flags: predictFlags(fs),
	}
	for _, c := range Commands {
		cfs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		c.SetFlags(cfs)
		a, ok := args[c.Name()]
		if !ok {
			a = predict.Nothing
		}
		root.Sub[c.Name()] = &complete.Command{
			Flags: predictFlags(cfs),
			Args:  a,
		}
	}
	return root
}

func predictFlags(fs *flag.FlagSet) map[string]complete.Predictor {
	flags := make(map[string]complete.Predictor)
	fs.VisitAll(func(f *flag.Flag) {
		if p, ok := flagPredictors[f.Name]; ok {
			flags[f.Name] = p
			return
		}
		if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
			flags[f.Name] = predict.Nothing
			return
		}
		flags[f.Name] = predict.Something
	})
	return flags
}
