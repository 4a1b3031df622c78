package game

import (
	"bytes"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// SerializationChecksum is a deterministic digest of a snapshot. Matches
// replayed from the same seed and commands produce equal hashes.
type SerializationChecksum struct {
	Hash      string
	Timestamp string
	Version   int
}

// ComputeChecksum hashes the canonical form of the snapshot. Timestamps and
// status instance ids are excluded.
func (s *Snapshot) ComputeChecksum() (*SerializationChecksum, error) {
	hash := sha256.New()
	if _, err := hash.Write([]byte(s.canonical())); err != nil {
		return nil, fmt.Errorf("failed to compute hash: %w", err)
	}

	return &SerializationChecksum{
		Hash:      hex.EncodeToString(hash.Sum(nil)),
		Timestamp: s.Timestamp.Format("2006-01-02T15:04:05.000Z"),
		Version:   1,
	}, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// canonical renders the snapshot independently of status attach order.
func (s *Snapshot) canonical() string {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "MATCH:%s|%d|%s\n", s.MatchID, s.Turn, s.Phase)

	players := append([]PlayerSnapshot(nil), s.Players...)
	sort.Slice(players, func(i, j int) bool { return players[i].ID < players[j].ID })

	for _, p := range players {
		fmt.Fprintf(&buf, "PLAYER:%d|%s|%s|%s|%s|%d|%d|%d|%t\n",
			p.ID,
			p.Name,
			formatFloat(p.Health),
			formatFloat(p.Mana),
			p.Status,
			p.DivinerID,
			p.PlayedCard,
			p.Target,
			p.Targetable,
		)

		// Hand order is deal order and therefore part of the state.
		hand := make([]string, len(p.Hand))
		for i, id := range p.Hand {
			hand[i] = strconv.Itoa(id)
		}
		buf.WriteString("  HAND:")
		buf.WriteString(strings.Join(hand, ","))
		buf.WriteString("\n")

		statuses := make([]string, 0, len(p.Statuses))
		for _, st := range p.Statuses {
			statuses = append(statuses, fmt.Sprintf("%d|%d|%s|%d",
				st.PresetID, st.Countdown, formatFloat(st.FloatParam), st.IntParam))
		}
		sort.Strings(statuses)
		for _, st := range statuses {
			fmt.Fprintf(&buf, "  STATUS:%s\n", st)
		}
	}

	return buf.String()
}

// VerifyChecksum reports whether the snapshot still hashes to expected.
func (s *Snapshot) VerifyChecksum(expected *SerializationChecksum) (bool, error) {
	computed, err := s.ComputeChecksum()
	if err != nil {
		return false, fmt.Errorf("failed to compute checksum: %w", err)
	}

	return computed.Hash == expected.Hash, nil
}

// SerializeToBytes gob-encodes the snapshot.
func (s *Snapshot) SerializeToBytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(s); err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// DeserializeFromBytes decodes a snapshot written by SerializeToBytes.
func DeserializeFromBytes(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &snap, nil
}

// ValidateSerializationRoundtrip checks that encoding and decoding the
// snapshot preserves its checksum.
func ValidateSerializationRoundtrip(s *Snapshot) error {
	original, err := s.ComputeChecksum()
	if err != nil {
		return fmt.Errorf("failed to compute original checksum: %w", err)
	}

	data, err := s.SerializeToBytes()
	if err != nil {
		return fmt.Errorf("failed to serialize: %w", err)
	}

	decoded, err := DeserializeFromBytes(data)
	if err != nil {
		return fmt.Errorf("failed to deserialize: %w", err)
	}

	roundtrip, err := decoded.ComputeChecksum()
	if err != nil {
		return fmt.Errorf("failed to compute deserialized checksum: %w", err)
	}

	if original.Hash != roundtrip.Hash {
		return fmt.Errorf("checksum mismatch: original=%s, deserialized=%s", original.Hash, roundtrip.Hash)
	}
	return nil
}
