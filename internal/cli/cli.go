// Package cli implements the fincalc subcommands on top of the tool registry.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/google/subcommands"

	"github.com/cloud-ru/finance-engine-go/internal/config"
	"github.com/cloud-ru/finance-engine-go/internal/tools"
	"github.com/cloud-ru/finance-engine-go/pkg/utils"
)

// Env is what every command needs to run.
type Env struct {
	Registry *tools.Registry
	Currency string
	// TaxPolicy names the income and deduction flags of the tax command. The
	// default policy is used when nil.
	TaxPolicy *config.TaxPolicy
	Out       io.Writer
	Err       io.Writer
}

// Register the subcommands.
func Register(c *subcommands.Commander, env *Env) {
	c.Register(&emiCmd{env: env}, "loans")
	c.Register(&taxCmd{env: env}, "tax")
	c.Register(&growthCmd{env: env}, "savings")
	c.Register(&ppfCmd{env: env}, "savings")
	c.Register(&monthlyCmd{env: env}, "subscriptions")
	c.Register(&callCmd{env: env}, "tools")
}

func (e *Env) call(ctx context.Context, tool string, params map[string]interface{}) (interface{}, error) {
	return e.Registry.Call(tools.WithTransport(ctx, "cli"), tool, params)
}

func (e *Env) taxPolicy() *config.TaxPolicy {
	if e.TaxPolicy != nil {
		return e.TaxPolicy
	}
	return config.DefaultTaxPolicy()
}

func (e *Env) money(amount float64) string {
	return utils.FormatMoney(amount, e.Currency)
}

func (e *Env) fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(e.Err, err)
	return subcommands.ExitFailure
}

// setParam copies a flag value into params when the flag was given.
func setParam(params map[string]interface{}, key, value string) {
	if value != "" {
		params[key] = value
	}
}

func usageError(f *flag.FlagSet, env *Env, msg string) subcommands.ExitStatus {
	fmt.Fprintln(env.Err, msg)
	f.Usage()
	return subcommands.ExitUsageError
}
