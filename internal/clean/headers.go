package clean

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/KaramelBytes/tidycsv/internal/dataset"
)

// CollisionPolicy decides what happens when two headers normalize to the same name.
type CollisionPolicy string

const (
	CollisionFail   CollisionPolicy = "fail"
	CollisionSuffix CollisionPolicy = "suffix"
)

// ParseCollisionPolicy validates a policy name; empty means fail.
func ParseCollisionPolicy(s string) (CollisionPolicy, error) {
	switch CollisionPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case CollisionFail, "":
		return CollisionFail, nil
	case CollisionSuffix:
		return CollisionSuffix, nil
	default:
		return "", fmt.Errorf("invalid header collision policy %q (use fail|suffix)", s)
	}
}

// NormalizeHeader trims, lowercases and replaces spaces with underscores.
func NormalizeHeader(h string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(h)), " ", "_")
}

// NormalizeHeaders maps each original header to its normalized form.
func NormalizeHeaders(headers []string) map[string]string {
	out := make(map[string]string, len(headers))
	for _, h := range headers {
		out[h] = NormalizeHeader(h)
	}
	return out
}

// Rename is one applied header change.
type Rename struct {
	From string
	To   string
}

// RenameColumns normalizes every column name in place, in column order.
// Collisions either fail or get a _2, _3, ... suffix depending on policy.
func RenameColumns(d *dataset.Dataset, policy CollisionPolicy) ([]Rename, error) {
	headers := d.Headers()
	mapping := NormalizeHeaders(headers)

	names := make([]string, len(headers))
	assigned := make([]bool, len(headers))
	owner := make(map[string]string, len(headers))
	for i, h := range headers {
		name := mapping[h]
		if prev, ok := owner[name]; ok {
			if policy != CollisionSuffix {
				return nil, &HeaderCollisionError{Name: name, Originals: []string{prev, h}}
			}
			continue
		}
		owner[name] = h
		names[i] = name
		assigned[i] = true
	}
	for i, h := range headers {
		if assigned[i] {
			continue
		}
		base := mapping[h]
		for n := 2; ; n++ {
			cand := base + "_" + strconv.Itoa(n)
			if _, ok := owner[cand]; !ok {
				owner[cand] = h
				names[i] = cand
				break
			}
		}
	}

	renames := make([]Rename, 0, len(headers))
	for i, c := range d.Columns {
		renames = append(renames, Rename{From: c.Name, To: names[i]})
		c.Name = names[i]
	}
	return renames, nil
}
