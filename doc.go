/*
Package main implements gobfi, a brainfuck interpreter.

Programs run on a tape of byte cells, 30000 by default, with a data pointer
into the tape and an instruction pointer into the program. Both start at 0.
There are eight instruction characters; every other character in a source
file is a comment, and is dropped before the program is encoded.

	>  move the data pointer one cell right
	<  move the data pointer one cell left
	+  increment the current cell
	-  decrement the current cell
	[  if the current cell is 0, jump past the matching ]
	]  if the current cell is not 0, jump back past the matching [
	,  read one byte of input into the current cell
	.  write the current cell to output

Cell arithmetic wraps modulo 256, and data pointer motion wraps around either
end of the tape. Reading past the end of input is an error.

Source is first encoded into a program of instructions, optionally
coalescing runs of repeated motion and arithmetic characters into single
instructions that carry a count, and replacing the common [-] idiom with a
single ClearCell instruction. A second pass then resolves every loop
instruction with its jump target, rejecting unbalanced brackets. Coalescing
never changes a program's observable behavior.

The encoded program may be written out one instruction per line with --emit,
or as a CBOR image with --emit-format=cbor, which --compiled can then run
without re-reading source.
*/
package main
