// Package logic implements the formula layer of the verification engine:
// a first-order logic expression model, a parser for the formula syntax
// used in proposition formalizations, symbol inventories, and rendering of
// entailment queries as SMT-LIB 2 programs for an external solver.
//
// The formula grammar, loosest-binding first:
//
//	iff   :=  imp ("<->" imp)*
//	imp   :=  or ("->" imp)?            right associative
//	or    :=  and ("|" and)*
//	and   :=  unary ("&" unary)*
//	unary :=  "-" unary
//	      |   ("all" | "exists") VAR+ "." unary
//	      |   atom
//	atom  :=  "(" iff ")"
//	      |   TERM "=" TERM
//	      |   IDENT "(" TERM ("," TERM)* ")"
//	      |   IDENT
//
// A bare identifier is a propositional variable; an applied identifier is a
// predicate over individual terms.
package logic
