package navigation

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/jask/wastewise/internal/auth"
)

// Rule keywords accepted in screen files besides full expressions.
const (
	RuleAlways    = "always"
	RuleSignedOut = "signed_out"
	RuleSignedIn  = "signed_in"
	RuleAdmin     = "admin"
	RuleUser      = "user"
)

// ruleEnv is the expression environment. Unknown identifiers fail at compile time.
type ruleEnv struct {
	SignedIn bool   `expr:"signed_in"`
	Role     string `expr:"role"`
}

// CompileRule turns a keyword or an expr expression into a Reach.
// Expressions see signed_in (bool) and role ("admin", "user" or "").
func CompileRule(src string) (Reach, error) {
	src = strings.TrimSpace(src)
	switch strings.ToLower(src) {
	case "":
		return nil, fmt.Errorf("%w: empty rule", ErrInvalidScreen)
	case RuleAlways:
		return Always, nil
	case RuleSignedOut:
		return SignedOut, nil
	case RuleSignedIn:
		return SignedIn, nil
	case RuleAdmin:
		return RoleOnly(auth.RoleAdmin), nil
	case RuleUser:
		return RoleOnly(auth.RoleUser), nil
	}
	program, err := expr.Compile(src, expr.Env(ruleEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("%w: rule %q: %v", ErrInvalidScreen, src, err)
	}
	return exprReach(program), nil
}

// exprReach evaluates program per call. A runtime error denies access.
func exprReach(program *vm.Program) Reach {
	return func(v Viewer) bool {
		env := ruleEnv{SignedIn: v.SignedIn}
		if v.SignedIn {
			env.Role = string(v.Role)
		}
		out, err := expr.Run(program, env)
		if err != nil {
			return false
		}
		ok, _ := out.(bool)
		return ok
	}
}
