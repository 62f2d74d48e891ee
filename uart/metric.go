package uart

import (
	"sync/atomic"
)

// TransmitterMetrics contains atomic metrics for a Transmitter.
// Metrics can be used as the value of a prometheus CounterFunc or GaugeFunc.
type TransmitterMetrics struct {
	// FrameSendCount indicates the number of frames transmitted to completion.
	FrameSendCount atomic.Uint64
	// BitSendCount indicates the number of bit periods driven on the line,
	// framing bits included.
	BitSendCount atomic.Uint64
	// BusyRejectCount indicates the number of SendByte calls rejected for a
	// caller contract violation (line busy or not idle).
	BusyRejectCount atomic.Uint64
}

func (m *TransmitterMetrics) incFrameSendCount() {
	m.FrameSendCount.Add(1)
}

func (m *TransmitterMetrics) incBitSendCount() {
	m.BitSendCount.Add(1)
}

func (m *TransmitterMetrics) incBusyRejectCount() {
	m.BusyRejectCount.Add(1)
}
