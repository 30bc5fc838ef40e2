package z80

var iyBitTable [256]opcodeEntry

func init() {
	buildIndexBitTable(&iyBitTable, IYBitFamily)
}
