package service

import (
	"context"
	"sync"
	"time"

	"amp_scheduler/internal/hardware"
	"amp_scheduler/internal/logger"
	"amp_scheduler/internal/models"
	"amp_scheduler/internal/repository"
)

// ScheduleService holds the authoritative in-memory schedule. It is loaded
// once at construction and rewritten to storage after every mutation. When
// the stored record is missing, unreadable or carries the wrong signature,
// defaults are substituted and written back immediately.
type ScheduleService struct {
	repo   repository.ScheduleRepo
	events repository.EventRepo
	player hardware.Player
	log    *logger.Logger

	mu  sync.RWMutex
	cur models.Schedule
}

func NewScheduleService(repo repository.ScheduleRepo, events repository.EventRepo, player hardware.Player, log *logger.Logger) *ScheduleService {
	s := &ScheduleService{repo: repo, events: events, player: player, log: log}
	s.load()
	return s
}

// load reads the stored schedule and recovers to defaults on any mismatch.
func (s *ScheduleService) load() {
	ctx := context.Background()

	stored, err := s.repo.Load(ctx)
	if err != nil || stored.Signature != models.ScheduleSignature {
		s.log.Infow("stored schedule invalid, using defaults",
			"err", err, "signature", stored.Signature)
		s.cur = models.DefaultSchedule()
		s.persist(ctx)
		s.appendEvent(ctx, models.EventReset, "Stored schedule invalid; defaults restored", nil)
	} else {
		// Volume is the one field re-validated on load.
		stored.Volume = models.ClampVolume(stored.Volume)
		s.cur = stored
		s.log.Infow("schedule loaded",
			"windows", len(stored.Windows), "volume", stored.Volume)
	}

	if err := s.player.SetVolume(s.cur.Volume); err != nil {
		s.log.Errorw("apply initial player volume", "err", err)
	}
}

// Replace swaps the whole window set: every field is clamped to its range,
// all-zero slots are dropped, the rest are compacted in submitted order and
// capped at the slot limit. The result is persisted and returned.
func (s *ScheduleService) Replace(ctx context.Context, windows []models.TimeWindow) models.Schedule {
	kept := make([]models.TimeWindow, 0, models.MaxWindows)
	for _, w := range windows {
		if len(kept) == models.MaxWindows {
			break
		}
		w = models.TimeWindow{
			StartHour:   clampInt(w.StartHour, 0, 23),
			StartMinute: clampInt(w.StartMinute, 0, 59),
			EndHour:     clampInt(w.EndHour, 0, 23),
			EndMinute:   clampInt(w.EndMinute, 0, 59),
		}
		if w.IsZero() {
			continue
		}
		kept = append(kept, w)
	}

	s.mu.Lock()
	s.cur.Windows = kept
	s.cur.UpdatedAt = time.Now().UTC()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(ctx)
	s.appendEvent(ctx, models.EventScheduleSet, "Activation windows replaced",
		map[string]any{"windows": len(kept)})
	s.log.Infow("schedule replaced", "windows", len(kept))
	return snap
}

// SetVolume clamps and applies a new volume level. The live player volume is
// only touched when the level actually changes.
func (s *ScheduleService) SetVolume(ctx context.Context, volume int) int {
	volume = models.ClampVolume(volume)

	s.mu.Lock()
	if s.cur.Volume == volume {
		s.mu.Unlock()
		return volume
	}
	s.cur.Volume = volume
	s.cur.UpdatedAt = time.Now().UTC()
	s.mu.Unlock()

	if err := s.player.SetVolume(volume); err != nil {
		s.log.Errorw("apply player volume", "err", err, "volume", volume)
	}
	s.persist(ctx)
	s.appendEvent(ctx, models.EventVolumeSet, "Playback volume changed",
		map[string]any{"volume": volume})
	s.log.Infow("volume set", "volume", volume)
	return volume
}

// Snapshot returns a copy of the current schedule.
func (s *ScheduleService) Snapshot() models.Schedule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *ScheduleService) snapshotLocked() models.Schedule {
	snap := s.cur
	snap.Windows = append([]models.TimeWindow(nil), s.cur.Windows...)
	return snap
}

// persist writes the current schedule. Failures are logged only: the
// in-memory copy stays authoritative and the next mutation tries again.
func (s *ScheduleService) persist(ctx context.Context) {
	s.mu.RLock()
	snap := s.snapshotLocked()
	s.mu.RUnlock()
	if err := s.repo.Save(ctx, snap); err != nil {
		s.log.Errorw("persist schedule", "err", err)
	}
}

func (s *ScheduleService) appendEvent(ctx context.Context, typ, desc string, meta map[string]any) {
	err := s.events.Append(ctx, models.AmpEvent{
		Type:        typ,
		Description: desc,
		Metadata:    meta,
	})
	if err != nil {
		s.log.Errorw("append event", "err", err, "type", typ)
	}
}
