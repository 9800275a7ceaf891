package protocol

import "errors"

// MaxStatusBits is the largest display a single status frame can describe
const MaxStatusBits = 20

var ErrTooManyBits = errors.New("too many bits for one status frame")

// BitStatus is the per-cell part of a status report
type BitStatus struct {
	State          uint8 // 0 uninitialized, 1 seeking, 2 settled
	Sensor         uint8 // 0 untriggered, 1 triggered
	StepsSinceHome uint32
	TargetSteps    uint32
	Target         byte // Last requested symbol
	Homes          uint32
}

// StatusReport is the payload of the frame answered to a status request
type StatusReport struct {
	Clock        uint32
	Cycles       uint32
	Pulses       uint32
	Advances     uint32
	SensorFaults uint32
	OutputFaults uint32
	Row          uint32 // Index of the row that will be shown next
	Bits         []BitStatus
}

// Encode writes the report as a sequence of VLQ values
func (r *StatusReport) Encode(output OutputBuffer) error {
	if len(r.Bits) > MaxStatusBits {
		return ErrTooManyBits
	}
	EncodeVLQUint(output, r.Clock)
	EncodeVLQUint(output, r.Cycles)
	EncodeVLQUint(output, r.Pulses)
	EncodeVLQUint(output, r.Advances)
	EncodeVLQUint(output, r.SensorFaults)
	EncodeVLQUint(output, r.OutputFaults)
	EncodeVLQUint(output, r.Row)
	EncodeVLQUint(output, uint32(len(r.Bits)))
	for i := range r.Bits {
		b := &r.Bits[i]
		EncodeVLQUint(output, uint32(b.State))
		EncodeVLQUint(output, uint32(b.Sensor))
		EncodeVLQUint(output, b.StepsSinceHome)
		EncodeVLQUint(output, b.TargetSteps)
		EncodeVLQUint(output, uint32(b.Target))
		EncodeVLQUint(output, b.Homes)
	}
	return nil
}

// DecodeStatusReport parses a status frame payload
func DecodeStatusReport(payload []byte) (StatusReport, error) {
	var r StatusReport
	data := payload

	header := []*uint32{&r.Clock, &r.Cycles, &r.Pulses, &r.Advances,
		&r.SensorFaults, &r.OutputFaults, &r.Row}
	for _, field := range header {
		v, err := DecodeVLQUint(&data)
		if err != nil {
			return StatusReport{}, err
		}
		*field = v
	}

	count, err := DecodeVLQUint(&data)
	if err != nil {
		return StatusReport{}, err
	}
	if count > MaxStatusBits {
		return StatusReport{}, ErrTooManyBits
	}

	r.Bits = make([]BitStatus, count)
	for i := range r.Bits {
		var vals [6]uint32
		for j := range vals {
			if vals[j], err = DecodeVLQUint(&data); err != nil {
				return StatusReport{}, err
			}
		}
		r.Bits[i] = BitStatus{
			State:          uint8(vals[0]),
			Sensor:         uint8(vals[1]),
			StepsSinceHome: vals[2],
			TargetSteps:    vals[3],
			Target:         byte(vals[4]),
			Homes:          vals[5],
		}
	}
	if len(data) != 0 {
		return StatusReport{}, ErrInvalidVLQ
	}
	return r, nil
}
