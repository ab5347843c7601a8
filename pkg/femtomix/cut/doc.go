/*
Package cut compiles selection expressions over named pair variables.

# Overview

A cut is a boolean expression such as

	kt > 1.5 or qinv < 0.005

compiled once and evaluated for every pair against a Vars map. Compiling
up front moves syntax errors to configuration time and keeps evaluation
free of string handling.

# Expression Syntax

	<expr>       := <expr> 'or' <expr>
	              | <expr> 'and' <expr>
	              | 'not' <expr>
	              | '!' <expr>
	              | <comparison>
	              | <operand>
	<comparison> := <operand> <op> <operand>
	<op>         := '==' | '!=' | '<' | '>' | '<=' | '>='
	<operand>    := number | true | false | identifier

'or' binds looser than 'and'. There are no parentheses. A lone operand is
true when it is non-zero.

# Usage

	c, err := cut.Compile("kt > 1.5 and qinv < 0.1")
	if err != nil {
	    return err
	}
	if err := c.Check("kt", "qinv"); err != nil {
	    return err // unknown variable
	}
	reject, err := c.Eval(cut.Vars{"kt": 2.0, "qinv": 0.05}) // true

A compiled Expr is immutable and safe for concurrent use.
*/
package cut
