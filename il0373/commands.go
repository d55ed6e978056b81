// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package il0373

// Commands
const (
	panelSetting            byte = 0x00
	powerSetting            byte = 0x01
	powerOff                byte = 0x03
	powerOn                 byte = 0x04
	boosterSoftStart        byte = 0x06
	deepSleep               byte = 0x08
	dataStartTransmission1  byte = 0x10
	dataStop                byte = 0x11
	displayRefresh          byte = 0x12
	dataStartTransmission2  byte = 0x13
	lutVCOM                 byte = 0x20
	lutWhiteToWhite         byte = 0x21
	lutBlackToWhite         byte = 0x22
	lutWhiteToBlack         byte = 0x23
	lutBlackToBlack         byte = 0x24
	pllControl              byte = 0x30
	vcomDataIntervalSetting byte = 0x50
	resolutionSetting       byte = 0x61
	vcmDCSetting            byte = 0x82
)

// deepSleepCheckCode must follow the deepSleep command, otherwise the
// controller ignores it.
const deepSleepCheckCode byte = 0xA5

// Flags for the panelSetting command
const (
	panelSoftResetOff byte = 1 << iota
	panelBoosterOn
	panelShiftRight
	panelScanUp
	_ // KW mode, DTM1 would load the old frame
	panelLUTFromRegister
)

// Data polarity selection of the vcomDataIntervalSetting command.
const (
	dataPolarityBW   byte = 0b01
	dataPolarityRed  byte = 0b10
	dataPolarityBoth byte = 0b11
)

// dataInterval10 selects a VCOM and data interval of 10 hsync.
const dataInterval10 byte = 0b0111

const (
	// MaxGateOutputs is the highest number of rows the controller drives.
	MaxGateOutputs = 296
	// MaxSourceOutputs is the highest number of columns the controller
	// drives.
	MaxSourceOutputs = 160
)

// Resolution is the panel resolution programmed with the panel setting
// register. The resolution setting register, which is always sent, takes
// precedence; the zero value is the controller's largest resolution.
type Resolution uint8

// Supported Resolution.
const (
	Res160x296 Resolution = iota
	Res128x296
	Res96x252
	Res96x230
)

func (r Resolution) bits() byte {
	switch r {
	case Res128x296:
		return 0b10
	case Res96x252:
		return 0b01
	case Res96x230:
		return 0b00
	default:
		return 0b11
	}
}

// LUT holds the waveform tables downloaded to the controller registers
// instead of the tables stored in its OTP memory.
type LUT struct {
	VCOM         [44]byte
	WhiteToWhite [42]byte
	BlackToWhite [42]byte
	WhiteToBlack [42]byte
	BlackToBlack [42]byte
}

func panelSettingValue(opts *Opts) byte {
	v := opts.PanelResolution.bits()<<6 |
		panelScanUp |
		panelShiftRight |
		panelBoosterOn |
		panelSoftResetOff

	if opts.LUT != nil {
		v |= panelLUTFromRegister
	}

	return v
}

func vcomDataInterval(border, polarity, interval byte) byte {
	return (border&0b11)<<6 | (polarity&0b11)<<4 | interval&0b1111
}

// resolutionValue encodes the horizontal resolution in pixels (the lower
// three bits are ignored by the controller) followed by the 9 bit vertical
// resolution.
func resolutionValue(g Geometry) []byte {
	return []byte{
		byte(g.Stride() * 8),
		byte((g.Height >> 8) & 0x01),
		byte(g.Height & 0xFF),
	}
}
