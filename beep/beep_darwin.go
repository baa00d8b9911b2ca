//go:build darwin

package beep

import (
	"sync"
	"sync/atomic"

	"github.com/gen2brain/malgo"
)

var (
	malgoCtx     *malgo.AllocatedContext
	device       *malgo.Device
	startSamples []byte
	stopSamples  []byte
	errorSamples []byte
	soundOnce    sync.Once

	// playback state, read from the device callback
	playing sync.Mutex
	current atomic.Pointer[[]byte]
	pos     atomic.Uint32
)

func initSound() {
	var err error
	malgoCtx, err = malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return
	}

	startSamples = toBytes(tone(startFreq, 0.1, startVolume, startDecay))
	stopSamples = toBytes(tone(stopFreq, 0.12, stopVolume, stopDecay))
	errorSamples = toBytes(doubleTone(errorFreq, 0.08, 0.05, errorVolume, errorDecay))

	if err := initDevice(); err != nil {
		malgoCtx.Uninit()
		malgoCtx = nil
	}
}

func initDevice() error {
	config := malgo.DefaultDeviceConfig(malgo.Playback)
	config.Playback.Format = malgo.FormatS16
	config.Playback.Channels = 1
	config.SampleRate = sampleRate

	var err error
	device, err = malgo.InitDevice(malgoCtx.Context, config, malgo.DeviceCallbacks{
		Data: dataCallback,
	})
	return err
}

func toBytes(samples []int16) []byte {
	buf := make([]byte, len(samples)*2)
	for i, s := range samples {
		buf[i*2] = byte(s)
		buf[i*2+1] = byte(s >> 8)
	}
	return buf
}

func dataCallback(out, _ []byte, frameCount uint32) {
	samples := current.Load()
	if samples == nil {
		zero(out)
		return
	}

	p := pos.Load()
	total := uint32(len(*samples))
	want := frameCount * 2
	remaining := total - p
	if remaining == 0 {
		current.Store(nil)
		zero(out)
		return
	}
	if want > remaining {
		want = remaining
	}
	copy(out[:want], (*samples)[p:p+want])
	pos.Store(p + want)
	for i := want; i < frameCount*2; i++ {
		out[i] = 0
	}
}

func zero(out []byte) {
	for i := range out {
		out[i] = 0
	}
}

func play(samples []byte) {
	if malgoCtx == nil || len(samples) == 0 {
		return
	}

	playing.Lock()
	defer playing.Unlock()

	if device == nil {
		return
	}

	device.Stop()
	pos.Store(0)
	current.Store(&samples)

	if err := device.Start(); err != nil {
		// Recreate the device; handles the stale handle left behind by
		// macOS sleep/wake.
		device.Uninit()
		if err := initDevice(); err != nil {
			current.Store(nil)
			return
		}
		if err := device.Start(); err != nil {
			current.Store(nil)
		}
	}
}

func Init() {
	soundOnce.Do(initSound)
}

func Start() {
	if disabled {
		return
	}
	soundOnce.Do(initSound)
	play(startSamples)
}

func Stop() {
	if disabled {
		return
	}
	soundOnce.Do(initSound)
	play(stopSamples)
}

func Error() {
	if disabled {
		return
	}
	soundOnce.Do(initSound)
	play(errorSamples)
}
