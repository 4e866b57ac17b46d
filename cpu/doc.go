// Package cpu implements the CHIP-8 virtual machine.
//
// The machine consists of 4096 bytes of memory, sixteen 8-bit registers
// (V0-VF, with VF doubling as the carry/borrow/collision flag), a 16-bit index
// register (I), a program counter, a 16 entry call stack, delay and sound
// timers, sixteen key latches and a 64x32 monochrome framebuffer.
//
// The host owns a Cpu, writes the key latches, decrements the timers at 60Hz
// and calls Step as often as it likes. Step never blocks; the key-wait
// instruction suspends itself by rewinding the program counter.
package cpu
