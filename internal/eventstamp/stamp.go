package eventstamp

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
)

const (
	// MsHexWidth ширина миллисекундной части stamp'а в hex символах
	MsHexWidth = 12
	// SeqHexWidth ширина счетчика в hex символах
	SeqHexWidth = 6
	// NonceHexWidth ширина случайного nonce в hex символах
	NonceHexWidth = 6
	// StampLen полная длина stamp'а
	StampLen = MsHexWidth + SeqHexWidth + NonceHexWidth

	maxMs  = int64(1)<<(4*MsHexWidth) - 1
	maxSeq = int64(1)<<(4*SeqHexWidth) - 1
)

// MakeStamp кодирует часы в строковый eventstamp
// Формат: hex(ms) фиксированной ширины + hex(seq) + случайный nonce
// Nonce исключает коллизии, когда ms и seq совпали на разных устройствах
func MakeStamp(ms, seq int64) (string, error) {
	if ms < 0 || ms > maxMs {
		return "", fmt.Errorf("eventstamp: ms %d out of range", ms)
	}
	if seq < 0 || seq > maxSeq {
		return "", fmt.Errorf("eventstamp: seq %d out of range", seq)
	}

	nonce := make([]byte, NonceHexWidth/2)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("eventstamp: failed to generate nonce: %w", err)
	}

	return fmt.Sprintf("%012x%06x%s", ms, seq, hex.EncodeToString(nonce)), nil
}

// ParseStamp разбирает ms/seq префикс stamp'а
// Точная инверсия MakeStamp для префикса; nonce не интерпретируется
func ParseStamp(stamp string) (Clock, error) {
	if len(stamp) != StampLen {
		return Clock{}, fmt.Errorf("eventstamp: invalid stamp length %d, want %d", len(stamp), StampLen)
	}

	ms, err := strconv.ParseInt(stamp[:MsHexWidth], 16, 64)
	if err != nil {
		return Clock{}, fmt.Errorf("eventstamp: invalid ms part: %w", err)
	}

	seq, err := strconv.ParseInt(stamp[MsHexWidth:MsHexWidth+SeqHexWidth], 16, 64)
	if err != nil {
		return Clock{}, fmt.Errorf("eventstamp: invalid seq part: %w", err)
	}

	if _, err := hex.DecodeString(stamp[MsHexWidth+SeqHexWidth:]); err != nil {
		return Clock{}, fmt.Errorf("eventstamp: invalid nonce part: %w", err)
	}

	return Clock{Ms: ms, Seq: seq}, nil
}
