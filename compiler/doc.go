/*
Package compiler runs sprs programs.

Process of execution

	Program Text ->
		lex ->
	Tokens ->
		parse ->
	Abstract Syntax Tree (ast) ->
		analyze (advisory type hints, optional) ->
		eval ->
	Output of print calls and the entry function result

The entry function is main if defined, the first function otherwise.
It is called with no arguments.
*/
package compiler
