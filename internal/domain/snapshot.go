package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

type SnapshotKind string

const (
	SnapshotSeats       SnapshotKind = "seats"
	SnapshotNoSeats     SnapshotKind = "no_seats"
	SnapshotSalesClosed SnapshotKind = "sales_closed"
	SnapshotFetchError  SnapshotKind = "fetch_error"
)

// UnboundedSeats marks a class sold without seat numbering.
const UnboundedSeats = -1

const unboundedMarker = "∞"

const UnnumberedClass = "Без нумерации"

// SeatClasses maps the site's car type code to its label.
var SeatClasses = []string{
	UnnumberedClass,
	"Общий",
	"Сидячий",
	"Плацкартный",
	"Купейный",
	"Мягкий",
	"СВ",
}

// Snapshot is the ticket availability of one train at one point in time:
// either per-class seat counts or a sentinel kind.
type Snapshot struct {
	Kind  SnapshotKind
	Seats map[string]int
}

func SeatsSnapshot(seats map[string]int) Snapshot {
	if seats == nil {
		seats = map[string]int{}
	}
	return Snapshot{Kind: SnapshotSeats, Seats: seats}
}

func NoSeats() Snapshot { return Snapshot{Kind: SnapshotNoSeats} }

func SalesClosed() Snapshot { return Snapshot{Kind: SnapshotSalesClosed} }

func FetchError() Snapshot { return Snapshot{Kind: SnapshotFetchError} }

func (s Snapshot) IsFetchError() bool { return s.Kind == SnapshotFetchError }

func (s Snapshot) HasUnnumbered() bool {
	_, ok := s.Seats[UnnumberedClass]
	return s.Kind == SnapshotSeats && ok
}

func (s Snapshot) Equal(other Snapshot) bool {
	if s.Kind != other.Kind {
		return false
	}
	if s.Kind != SnapshotSeats {
		return true
	}
	return maps.Equal(s.Seats, other.Seats)
}

type SeatCount struct {
	Class string
	Count int
}

func (c SeatCount) Unbounded() bool { return c.Count == UnboundedSeats }

// Classes returns seat counts ordered by car type code. Labels that are not
// known car types come last in lexical order.
func (s Snapshot) Classes() []SeatCount {
	labels := slices.Collect(maps.Keys(s.Seats))
	slices.SortFunc(labels, func(a, b string) int {
		ia, ib := classRank(a), classRank(b)
		if ia != ib {
			return ia - ib
		}
		if a < b {
			return -1
		}
		if a > b {
			return 1
		}
		return 0
	})
	out := make([]SeatCount, 0, len(labels))
	for _, label := range labels {
		out = append(out, SeatCount{Class: label, Count: s.Seats[label]})
	}
	return out
}

func classRank(label string) int {
	if i := slices.Index(SeatClasses, label); i >= 0 {
		return i
	}
	return len(SeatClasses)
}

// MarshalJSON encodes seat snapshots as an object of class to count (the
// unbounded marker as "∞") and sentinels as a bare string.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	if s.Kind != SnapshotSeats {
		return json.Marshal(string(s.Kind))
	}
	raw := make(map[string]any, len(s.Seats))
	for class, count := range s.Seats {
		if count == UnboundedSeats {
			raw[class] = unboundedMarker
			continue
		}
		raw[class] = count
	}
	return json.Marshal(raw)
}

func (s *Snapshot) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*s = FetchError()
		return nil
	}
	if trimmed[0] == '"' {
		var kind string
		if err := json.Unmarshal(trimmed, &kind); err != nil {
			return err
		}
		switch SnapshotKind(kind) {
		case SnapshotNoSeats, SnapshotSalesClosed, SnapshotFetchError:
			*s = Snapshot{Kind: SnapshotKind(kind)}
			return nil
		}
		return fmt.Errorf("unknown snapshot kind %q", kind)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	seats := make(map[string]int, len(raw))
	for class, value := range raw {
		var count int
		if err := json.Unmarshal(value, &count); err == nil {
			seats[class] = count
			continue
		}
		var marker string
		if err := json.Unmarshal(value, &marker); err != nil || marker != unboundedMarker {
			return fmt.Errorf("unexpected seat count for %q: %s", class, value)
		}
		seats[class] = UnboundedSeats
	}
	*s = SeatsSnapshot(seats)
	return nil
}
