/*
Package netsim compiles a hardware netlist into a cycle-accurate software
simulation of the circuit: a single straight-line Go procedure run in a
loop, one iteration per clock edge, until the circuit's completion flag
goes high.

The compiler schedules the combinational instances so that every consumer
follows its producers, emits one statement per instance, splits clocked
state into a next-value phase and a simultaneous commit phase, and packs
the single-bit named outputs into one integer, first output in the lowest
bit. Memory primitives additionally yield initialization content files and
optional vendor macro instantiation text.

Netlists can also be executed directly with Run, which implements the same
semantics without generating code.
*/
package netsim
