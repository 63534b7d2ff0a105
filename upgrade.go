package shelf

import (
	"context"
	"fmt"
	"maps"

	"go.uber.org/zap"

	"github.com/reoring/shelf/version"
)

// recordVersion reads the version tag of raw data. Untagged data is 0.0.0.
func recordVersion(rec Record) version.Tuple {
	switch v := rec[VersionKey].(type) {
	case string:
		return version.Parse(v)
	case nil:
		return version.Zero
	default:
		// YAML and loosely typed producers may emit 1 or 1.2 unquoted.
		return version.Parse(fmt.Sprint(v))
	}
}

// applyUpgrades runs every upgrade of s registered above the data's own
// version, once each, in ascending order. The version tag itself is left
// as the upgrade functions leave it.
func (r *Registry) applyUpgrades(ctx context.Context, s *Schema, rec Record, p pointer) (Record, error) {
	if len(s.upgrades) == 0 {
		return rec, nil
	}
	from := recordVersion(rec)
	for _, step := range s.UpgradeVersions() {
		if step.Compare(from) <= 0 {
			continue
		}
		r.log.Debug("shelf: applying upgrade",
			zap.String("type", s.typ.name),
			zap.String("path", p.String()),
			zap.Stringer("from", from),
			zap.Stringer("step", step))
		next, err := s.upgrades[step](ctx, maps.Clone(rec))
		if err == nil && next == nil {
			err = ErrNilUpgrade
		}
		if err != nil {
			return nil, Issues{newIssue(p, CodeUpgradeFailed, err, map[string]string{
				"type":    s.typ.name,
				"version": step.String(),
			})}
		}
		rec = next
	}
	return rec, nil
}
