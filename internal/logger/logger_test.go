package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type recorder struct {
	lines []string
}

func (r *recorder) Debug(m string, _ ...any) { r.lines = append(r.lines, "DEBUG "+m) }
func (r *recorder) Info(m string, _ ...any)  { r.lines = append(r.lines, "INFO "+m) }
func (r *recorder) Warn(m string, _ ...any)  { r.lines = append(r.lines, "WARN "+m) }
func (r *recorder) Error(m string, _ ...any) { r.lines = append(r.lines, "ERROR "+m) }

func TestLogger_FansOut(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	Init(a, b)
	t.Cleanup(func() { Init() })

	Info("scan started", "dir", ".")
	Warn("slow file")
	Debug("tokens", "n", 3)

	want := []string{"INFO scan started", "WARN slow file", "DEBUG tokens"}
	assert.Equal(t, want, a.lines)
	assert.Equal(t, want, b.lines)
}

func TestLogger_NoBackends(t *testing.T) {
	Init()
	assert.NotPanics(t, func() {
		Error("dropped")
	})
}
