package evaluator

import (
	"math"
	"strings"

	"github.com/dotfunc/c64basic/ast"
	"github.com/dotfunc/c64basic/berrors"
	"github.com/dotfunc/c64basic/object"
)

type builtinFn func(env *object.Environment, args []object.Object) object.Object

var builtins = map[string]builtinFn{
	"ABS": func(env *object.Environment, args []object.Object) object.Object {
		n, errObj := oneNumber(args)
		if errObj != nil {
			return errObj
		}
		return &object.Number{Value: math.Abs(n)}
	},
	"ASC": func(env *object.Environment, args []object.Object) object.Object {
		s, errObj := oneString(args)
		if errObj != nil {
			return errObj
		}
		if len(s) == 0 {
			return newError(berrors.IllegalQuantity)
		}
		return &object.Number{Value: float64(s[0])}
	},
	"ATN": func(env *object.Environment, args []object.Object) object.Object {
		n, errObj := oneNumber(args)
		if errObj != nil {
			return errObj
		}
		return &object.Number{Value: math.Atan(n)}
	},
	"CHR$": func(env *object.Environment, args []object.Object) object.Object {
		n, errObj := oneNumber(args)
		if errObj != nil {
			return errObj
		}
		code := int(n)
		if code < 0 || code > 255 {
			return newError(berrors.IllegalQuantity)
		}
		return &object.String{Value: string(rune(code))}
	},
	"COS": func(env *object.Environment, args []object.Object) object.Object {
		n, errObj := oneNumber(args)
		if errObj != nil {
			return errObj
		}
		return &object.Number{Value: math.Cos(n)}
	},
	"EXP": func(env *object.Environment, args []object.Object) object.Object {
		n, errObj := oneNumber(args)
		if errObj != nil {
			return errObj
		}
		return numResult(math.Exp(n))
	},
	"FRE": func(env *object.Environment, args []object.Object) object.Object {
		// the stock machine's free-memory report
		return &object.Number{Value: 38911}
	},
	"INT": func(env *object.Environment, args []object.Object) object.Object {
		n, errObj := oneNumber(args)
		if errObj != nil {
			return errObj
		}
		return &object.Number{Value: math.Floor(n)}
	},
	"LEFT$": func(env *object.Environment, args []object.Object) object.Object {
		s, n, errObj := stringAndNumber(args)
		if errObj != nil {
			return errObj
		}
		if n < 0 {
			return newError(berrors.IllegalQuantity)
		}
		if n > len(s) {
			n = len(s)
		}
		return &object.String{Value: s[:n]}
	},
	"LEN": func(env *object.Environment, args []object.Object) object.Object {
		s, errObj := oneString(args)
		if errObj != nil {
			return errObj
		}
		return &object.Number{Value: float64(len(s))}
	},
	"LOG": func(env *object.Environment, args []object.Object) object.Object {
		n, errObj := oneNumber(args)
		if errObj != nil {
			return errObj
		}
		if n <= 0 {
			return newError(berrors.IllegalQuantity)
		}
		return &object.Number{Value: math.Log(n)}
	},
	"MID$": func(env *object.Environment, args []object.Object) object.Object {
		if len(args) < 2 || len(args) > 3 {
			return newError(berrors.Syntax)
		}
		s, errObj := argString(args[0])
		if errObj != nil {
			return errObj
		}
		start, errObj := argInt(args[1])
		if errObj != nil {
			return errObj
		}
		if start < 1 {
			start = 1
		}
		if start > len(s) {
			return &object.String{Value: ""}
		}

		rest := s[start-1:]
		if len(args) == 3 {
			n, errObj := argInt(args[2])
			if errObj != nil {
				return errObj
			}
			if n < 0 {
				return newError(berrors.IllegalQuantity)
			}
			if n < len(rest) {
				rest = rest[:n]
			}
		}
		return &object.String{Value: rest}
	},
	"PEEK": func(env *object.Environment, args []object.Object) object.Object {
		n, errObj := oneNumber(args)
		if errObj != nil {
			return errObj
		}
		return &object.Number{Value: float64(env.Peek(int(n)))}
	},
	"POS": func(env *object.Environment, args []object.Object) object.Object {
		return &object.Number{Value: float64(env.Terminal().Col())}
	},
	"RIGHT$": func(env *object.Environment, args []object.Object) object.Object {
		s, n, errObj := stringAndNumber(args)
		if errObj != nil {
			return errObj
		}
		if n < 0 {
			return newError(berrors.IllegalQuantity)
		}
		if n > len(s) {
			n = len(s)
		}
		return &object.String{Value: s[len(s)-n:]}
	},
	"RND": func(env *object.Environment, args []object.Object) object.Object {
		x := 1.0
		if len(args) == 1 {
			n, ok := args[0].(*object.Number)
			if !ok {
				return newError(berrors.TypeMismatch)
			}
			x = n.Value
		}
		return &object.Number{Value: env.Random(x)}
	},
	"SGN": func(env *object.Environment, args []object.Object) object.Object {
		n, errObj := oneNumber(args)
		if errObj != nil {
			return errObj
		}
		switch {
		case n > 0:
			return &object.Number{Value: 1}
		case n < 0:
			return &object.Number{Value: -1}
		}
		return &object.Number{Value: 0}
	},
	"SIN": func(env *object.Environment, args []object.Object) object.Object {
		n, errObj := oneNumber(args)
		if errObj != nil {
			return errObj
		}
		return &object.Number{Value: math.Sin(n)}
	},
	"SQR": func(env *object.Environment, args []object.Object) object.Object {
		n, errObj := oneNumber(args)
		if errObj != nil {
			return errObj
		}
		if n < 0 {
			return newError(berrors.IllegalQuantity)
		}
		return &object.Number{Value: math.Sqrt(n)}
	},
	"STR$": func(env *object.Environment, args []object.Object) object.Object {
		n, errObj := oneNumber(args)
		if errObj != nil {
			return errObj
		}
		return &object.String{Value: object.FormatNumber(n)}
	},
	"TAN": func(env *object.Environment, args []object.Object) object.Object {
		n, errObj := oneNumber(args)
		if errObj != nil {
			return errObj
		}
		return numResult(math.Tan(n))
	},
	"VAL": func(env *object.Environment, args []object.Object) object.Object {
		s, errObj := oneString(args)
		if errObj != nil {
			return errObj
		}
		return &object.Number{Value: prefixNumeric(s)}
	},
}

func evalCall(exp *ast.CallExpression, env *object.Environment) object.Object {
	fn, ok := builtins[exp.Fn]
	if !ok {
		return newError(berrors.Syntax)
	}

	args := make([]object.Object, len(exp.Args))
	for i, a := range exp.Args {
		val := evalExpression(a, env)
		if isError(val) {
			return val
		}
		args[i] = val
	}
	return fn(env, args)
}

// prefixNumeric parses the longest numeric prefix, zero when there are
// no digits at all
func prefixNumeric(s string) float64 {
	s = strings.TrimLeft(s, " \t")

	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
			digits++
		}
	}
	if digits == 0 {
		return 0
	}

	v, err := strconvParse(strings.TrimRight(s[:i], "."))
	if err != nil {
		return 0
	}
	return v
}

// argument helpers

func oneNumber(args []object.Object) (float64, *object.Error) {
	if len(args) != 1 {
		return 0, newError(berrors.Syntax)
	}
	n, ok := args[0].(*object.Number)
	if !ok {
		return 0, newError(berrors.TypeMismatch)
	}
	return n.Value, nil
}

func oneString(args []object.Object) (string, *object.Error) {
	if len(args) != 1 {
		return "", newError(berrors.Syntax)
	}
	s, ok := args[0].(*object.String)
	if !ok {
		return "", newError(berrors.TypeMismatch)
	}
	return s.Value, nil
}

func stringAndNumber(args []object.Object) (string, int, *object.Error) {
	if len(args) != 2 {
		return "", 0, newError(berrors.Syntax)
	}
	s, errObj := argString(args[0])
	if errObj != nil {
		return "", 0, errObj
	}
	n, errObj := argInt(args[1])
	if errObj != nil {
		return "", 0, errObj
	}
	return s, n, nil
}

func argString(arg object.Object) (string, *object.Error) {
	s, ok := arg.(*object.String)
	if !ok {
		return "", newError(berrors.TypeMismatch)
	}
	return s.Value, nil
}

func argInt(arg object.Object) (int, *object.Error) {
	n, ok := arg.(*object.Number)
	if !ok {
		return 0, newError(berrors.TypeMismatch)
	}
	return int(n.Value), nil
}
