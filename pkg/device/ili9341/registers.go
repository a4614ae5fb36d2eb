package ili9341

// Registers used after initialization.
const (
	MADCTL   = 0x36 // memory access control
	CASET    = 0x2A // column address set
	PASET    = 0x2B // page address set
	RAMWR    = 0x2C // memory write
	RAMRD    = 0x2E // memory read
	VSCRSADD = 0x37 // vertical scrolling start address
	SLPOUT   = 0x11
	DISPON   = 0x29
)

// MADCTL bits.
const (
	MADCTL_MY  = 0x80 // row address order
	MADCTL_MX  = 0x40 // column address order
	MADCTL_MV  = 0x20 // row/column exchange
	MADCTL_ML  = 0x10 // vertical refresh order
	MADCTL_BGR = 0x08 // BGR panel order
	MADCTL_MH  = 0x04 // horizontal refresh order
)

type command struct {
	op   byte
	data []byte
}

// initSequence runs in order without delays; SLPOUT and DISPON carry no parameters.
var initSequence = []command{
	{0xEF, []byte{0x03, 0x80, 0x02}},
	{0xCF, []byte{0x00, 0xC1, 0x30}},             // power control B
	{0xED, []byte{0x64, 0x03, 0x12, 0x81}},       // power on sequence control
	{0xE8, []byte{0x85, 0x00, 0x78}},             // driver timing control A
	{0xCB, []byte{0x39, 0x2C, 0x00, 0x34, 0x02}}, // power control A
	{0xF7, []byte{0x20}},                         // pump ratio
	{0xEA, []byte{0x00, 0x00}},                   // driver timing control B
	{0xC0, []byte{0x23}},                         // power control 1, VRH[5:0]
	{0xC1, []byte{0x10}},                         // power control 2, SAP[2:0], BT[3:0]
	{0xC5, []byte{0x3E, 0x28}},                   // VCM control 1
	{0xC7, []byte{0x86}},                         // VCM control 2
	{MADCTL, []byte{0x48}},
	{0x3A, []byte{0x55}},       // pixel format, 16 bits
	{0xB1, []byte{0x00, 0x18}}, // frame rate control
	{0xB6, []byte{0x08, 0x82, 0x27}},
	{0xF2, []byte{0x00}}, // 3 gamma off
	{0x26, []byte{0x01}}, // gamma curve 1
	{0xE0, []byte{0x0F, 0x31, 0x2B, 0x0C, 0x0E, 0x08, 0x4E, 0xF1, 0x37, 0x07, 0x10, 0x03, 0x0E, 0x09, 0x00}},
	{0xE1, []byte{0x00, 0x0E, 0x14, 0x03, 0x11, 0x07, 0x31, 0xC1, 0x48, 0x08, 0x0F, 0x0C, 0x31, 0x36, 0x0F}},
	{SLPOUT, nil},
	{DISPON, nil},
}
