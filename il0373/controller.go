// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package il0373

import "iter"

type controller interface {
	sendCommand(byte)
	sendData([]byte)
}

// configureDisplay programs the power, panel and timing registers and turns
// the charge pumps on. The caller must wait for the busy line afterwards.
func configureDisplay(ctrl controller, opts *Opts) {
	ctrl.sendCommand(powerSetting)
	ctrl.sendData([]byte{
		// Internal DC/DC for VDH/VDL and VGH/VGL.
		0x03,
		0x00,
		opts.PowerSetting[0],
		opts.PowerSetting[1],
		opts.PowerSetting[2],
	})

	ctrl.sendCommand(boosterSoftStart)
	ctrl.sendData(opts.BoosterSoftStart[:])

	ctrl.sendCommand(panelSetting)
	ctrl.sendData([]byte{panelSettingValue(opts)})

	ctrl.sendCommand(vcomDataIntervalSetting)
	ctrl.sendData([]byte{vcomDataInterval(0, dataPolarityBoth, dataInterval10)})

	ctrl.sendCommand(pllControl)
	ctrl.sendData([]byte{opts.PLL})

	ctrl.sendCommand(vcmDCSetting)
	ctrl.sendData([]byte{opts.VCOMDC})

	ctrl.sendCommand(resolutionSetting)
	ctrl.sendData(resolutionValue(opts.geometry()))

	if opts.LUT != nil {
		setLUT(ctrl, opts.LUT)
	}

	ctrl.sendCommand(powerOn)
}

func setLUT(ctrl controller, lut *LUT) {
	ctrl.sendCommand(lutVCOM)
	ctrl.sendData(lut.VCOM[:])

	ctrl.sendCommand(lutWhiteToWhite)
	ctrl.sendData(lut.WhiteToWhite[:])

	ctrl.sendCommand(lutBlackToWhite)
	ctrl.sendData(lut.BlackToWhite[:])

	ctrl.sendCommand(lutWhiteToBlack)
	ctrl.sendData(lut.WhiteToBlack[:])

	ctrl.sendCommand(lutBlackToBlack)
	ctrl.sendData(lut.BlackToBlack[:])
}

// sendPlane streams a plane to the controller RAM selected by cmd. Storage
// errors abort the transfer; bus errors are tracked by ctrl.
func sendPlane(ctrl controller, cmd byte, chunks iter.Seq2[[]byte, error]) error {
	ctrl.sendCommand(cmd)

	for chunk, err := range chunks {
		if err != nil {
			return err
		}
		ctrl.sendData(chunk)
	}

	return nil
}

// transferPlanes sends the primary plane followed by the accent plane, the
// order in which the controller addresses its two RAM banks. The panel
// always runs in black/white/red mode, so a one-plane storage gets a blank
// accent plane.
func transferPlanes(ctrl controller, s Storage) error {
	if err := sendPlane(ctrl, dataStartTransmission1, s.Chunks(Primary)); err != nil {
		return err
	}

	if s.Planes() < 2 {
		ctrl.sendCommand(dataStartTransmission2)
		ctrl.sendData(make([]byte, s.Geometry().Size()))
		return nil
	}

	return sendPlane(ctrl, dataStartTransmission2, s.Chunks(Accent))
}

func refreshDisplay(ctrl controller) {
	ctrl.sendCommand(displayRefresh)
}

// powerDown floats the border, drops VCOM and turns the charge pumps off
// before entering deep sleep. Only a hardware reset wakes the controller.
func powerDown(ctrl controller) {
	ctrl.sendCommand(vcomDataIntervalSetting)
	ctrl.sendData([]byte{vcomDataInterval(0, dataPolarityBW, dataInterval10)})

	ctrl.sendCommand(vcmDCSetting)
	ctrl.sendData([]byte{0x00})

	ctrl.sendCommand(powerOff)

	ctrl.sendCommand(deepSleep)
	ctrl.sendData([]byte{deepSleepCheckCode})
}
