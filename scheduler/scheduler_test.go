package scheduler

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"

	"auto_apply_go/config"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestCronSpec(t *testing.T) {
	tests := []struct {
		timeStr      string
		workdaysOnly bool
		want         string
		wantErr      bool
	}{
		{"09:30", true, "30 9 * * 1-5", false},
		{"09:30", false, "30 9 * * *", false},
		{"21:00", false, "0 21 * * *", false},
		{"00:00", false, "0 0 * * *", false},
		{"9am", false, "", true},
		{"25:00", false, "", true},
		{"12:60", false, "", true},
		{"12", false, "", true},
	}

	for _, tt := range tests {
		got, err := CronSpec(tt.timeStr, tt.workdaysOnly)
		if tt.wantErr {
			if err == nil {
				t.Errorf("CronSpec(%q) 应返回错误, 实际 %q", tt.timeStr, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("CronSpec(%q) error = %v", tt.timeStr, err)
			continue
		}
		if got != tt.want {
			t.Errorf("CronSpec(%q, %v) = %q, want %q", tt.timeStr, tt.workdaysOnly, got, tt.want)
		}
	}
}

func TestSetup(t *testing.T) {
	cfg := &config.ScheduleConfig{
		Enabled:      true,
		Times:        []string{"09:30", "bad", "18:00"},
		WorkdaysOnly: true,
	}

	s := New(cfg, func() {}, testLogger())
	if added := s.Setup(); added != 2 {
		t.Errorf("Setup() = %d, 期望 2 (无效时间串应跳过)", added)
	}
}

func TestSetupDisabled(t *testing.T) {
	cfg := &config.ScheduleConfig{
		Enabled: false,
		Times:   []string{"09:30"},
	}

	s := New(cfg, func() {}, testLogger())
	if added := s.Setup(); added != 0 {
		t.Errorf("未启用时 Setup() = %d, 期望 0", added)
	}
}

func TestWrappedJobRecoversPanic(t *testing.T) {
	cfg := &config.ScheduleConfig{Enabled: true}
	s := New(cfg, func() { panic("执行出错") }, testLogger())

	// panic 应被吞掉，不影响后续调度
	s.wrappedJob("09:30")
}

func TestWrappedJobRunsJob(t *testing.T) {
	ran := false
	cfg := &config.ScheduleConfig{Enabled: true}
	s := New(cfg, func() { ran = true }, testLogger())

	s.wrappedJob("09:30")
	if !ran {
		t.Error("wrappedJob 应执行任务函数")
	}
}
