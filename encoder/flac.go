// Package encoder compresses raw capture audio for upload to batch
// transcription APIs. FLAC is lossless and cuts 16 kHz speech to
// roughly half its PCM size.
package encoder

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
	"github.com/mewkiz/flac/meta"
)

const (
	BitsPerSample = 16
	blockSize     = 4096
)

// EncodeFLAC compresses 16-bit little-endian mono PCM.
func EncodeFLAC(pcm []byte, sampleRate int) ([]byte, error) {
	var buf bytes.Buffer
	info := &meta.StreamInfo{
		BlockSizeMin:  blockSize,
		BlockSizeMax:  blockSize,
		SampleRate:    uint32(sampleRate),
		NChannels:     1,
		BitsPerSample: BitsPerSample,
	}
	enc, err := flac.NewEncoder(&buf, info)
	if err != nil {
		return nil, fmt.Errorf("creating flac encoder: %w", err)
	}
	enc.EnablePredictionAnalysis(true)

	nSamples := len(pcm) / 2
	for off := 0; off < nSamples; off += blockSize {
		n := blockSize
		if off+n > nSamples {
			n = nSamples - off
		}
		samples := make([]int32, n)
		for i := 0; i < n; i++ {
			samples[i] = int32(int16(binary.LittleEndian.Uint16(pcm[(off+i)*2:])))
		}
		f := &frame.Frame{
			Header: frame.Header{
				BlockSize:     uint16(n),
				SampleRate:    uint32(sampleRate),
				Channels:      frame.ChannelsMono,
				BitsPerSample: BitsPerSample,
			},
			Subframes: []*frame.Subframe{{
				SubHeader: frame.SubHeader{Pred: frame.PredVerbatim},
				Samples:   samples,
				NSamples:  n,
			}},
		}
		if err := enc.WriteFrame(f); err != nil {
			return nil, fmt.Errorf("writing flac frame: %w", err)
		}
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("closing flac stream: %w", err)
	}
	return buf.Bytes(), nil
}
