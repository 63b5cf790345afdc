package domain

import "time"

// SweepSchedule is the persisted state of the periodic sweep. It
// survives restarts so a relaunched scheduler waits out the remaining
// interval instead of sweeping straight away.
type SweepSchedule struct {
	Interval time.Duration
	Enabled  bool

	LastRun     time.Time
	NextRun     time.Time
	LastSuccess time.Time

	// LastError is the error of the most recent run, empty after a clean one.
	LastError string
}

// NewSweepSchedule returns a schedule whose first run is one interval
// after now.
func NewSweepSchedule(s SweepSettings, now time.Time) *SweepSchedule {
	return &SweepSchedule{
		Interval: s.Interval,
		Enabled:  s.SchedulerEnabled,
		NextRun:  now.Add(s.Interval),
	}
}

// Due reports whether a sweep should start at now.
func (s *SweepSchedule) Due(now time.Time) bool {
	return s.Enabled && !s.NextRun.After(now)
}

// Apply brings a stored schedule in line with the current settings. A
// changed interval restarts the countdown from now.
func (s *SweepSchedule) Apply(settings SweepSettings, now time.Time) {
	if s.Interval != settings.Interval {
		s.Interval = settings.Interval
		s.NextRun = now.Add(settings.Interval)
	}
	s.Enabled = settings.SchedulerEnabled
}

// Complete records the outcome of run and schedules the next one.
func (s *SweepSchedule) Complete(run SweepRun) {
	s.LastRun = run.StartedAt
	s.NextRun = run.EndedAt.Add(s.Interval)
	s.LastError = run.Error
	if run.Succeeded() {
		s.LastSuccess = run.EndedAt
	}
}

// SweepRun is the history entry for one scheduled sweep.
type SweepRun struct {
	StartedAt time.Time
	EndedAt   time.Time

	SourcesUpdated int
	GroupsUpdated  int
	Failures       int

	Error string
}

// Succeeded is true when the sweep finished without error.
func (r SweepRun) Succeeded() bool {
	return r.Error == ""
}

// NewSweepRun summarises a sweep report. report may be nil when the
// sweep could not start.
func NewSweepRun(report *SweepReport, started, ended time.Time, err error) SweepRun {
	run := SweepRun{StartedAt: started, EndedAt: ended}
	if report != nil {
		run.SourcesUpdated = report.SourcesUpdated
		run.GroupsUpdated = report.GroupsUpdated
		run.Failures = len(report.Failures)
	}
	if err != nil {
		run.Error = err.Error()
	}
	return run
}
