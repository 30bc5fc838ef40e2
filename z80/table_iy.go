package z80

var fdTable [256]opcodeEntry

func init() {
	buildIndexTable(&fdTable, IYFamily, func(c *CPU) *uint16 { return &c.IY })
}
