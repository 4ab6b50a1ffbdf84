package asset

// Token is a script bytecode opcode. Values match the engine's expression tokens.
type Token byte

const (
	TokenLocalVariable    Token = 0x00
	TokenInstanceVariable Token = 0x01
	TokenReturn           Token = 0x04
	TokenNothing          Token = 0x0B
	TokenLet              Token = 0x0F
	TokenEndFunctionParms Token = 0x16
	TokenContext          Token = 0x19
	TokenVirtualFunction  Token = 0x1B
	TokenFinalFunction    Token = 0x1C
	TokenIntConst         Token = 0x1D
	TokenStringConst      Token = 0x1F
	TokenObjectConst      Token = 0x20
	TokenNameConst        Token = 0x21
	TokenEndOfScript      Token = 0x53
)

// Expr is one script bytecode expression.
type Expr interface {
	Token() Token
}

// FieldPath addresses a property through its owner.
type FieldPath struct {
	Path          []FName
	ResolvedOwner PackageIndex
}

type (
	// ExprLocalVariable reads a local variable or parameter.
	ExprLocalVariable struct {
		Variable FieldPath
	}

	// ExprInstanceVariable reads a member of the executing object.
	ExprInstanceVariable struct {
		Variable FieldPath
	}

	// ExprLet assigns Value to Variable.
	ExprLet struct {
		Value    Expr
		Variable FieldPath
	}

	// ExprFinalFunction calls a statically bound function.
	ExprFinalFunction struct {
		Params    []Expr
		StackNode PackageIndex
	}

	// ExprVirtualFunction calls a function by name.
	ExprVirtualFunction struct {
		Params              []Expr
		VirtualFunctionName FName
	}

	// ExprContext evaluates Context on the object produced by Object.
	ExprContext struct {
		Object        Expr
		Context       Expr
		RValuePointer FieldPath
		Offset        uint32
	}

	ExprObjectConst struct {
		Value PackageIndex
	}

	ExprNameConst struct {
		Value FName
	}

	ExprIntConst struct {
		Value int32
	}

	ExprStringConst struct {
		Value string
	}

	ExprReturn struct {
		Value Expr
	}

	ExprNothing struct{}

	ExprEndOfScript struct{}
)

func (*ExprLocalVariable) Token() Token    { return TokenLocalVariable }
func (*ExprInstanceVariable) Token() Token { return TokenInstanceVariable }
func (*ExprLet) Token() Token              { return TokenLet }
func (*ExprFinalFunction) Token() Token    { return TokenFinalFunction }
func (*ExprVirtualFunction) Token() Token  { return TokenVirtualFunction }
func (*ExprContext) Token() Token          { return TokenContext }
func (*ExprObjectConst) Token() Token      { return TokenObjectConst }
func (*ExprNameConst) Token() Token        { return TokenNameConst }
func (*ExprIntConst) Token() Token         { return TokenIntConst }
func (*ExprStringConst) Token() Token      { return TokenStringConst }
func (*ExprReturn) Token() Token           { return TokenReturn }
func (*ExprNothing) Token() Token          { return TokenNothing }
func (*ExprEndOfScript) Token() Token      { return TokenEndOfScript }
