package logging

import (
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	for _, mode := range []string{gin.DebugMode, gin.ReleaseMode, gin.TestMode} {
		t.Run(mode, func(t *testing.T) {
			logger, err := New(mode)
			if err != nil {
				t.Fatalf("New(%q) returned error: %v", mode, err)
			}
			if logger == nil {
				t.Fatal("expected logger")
			}
		})
	}
}

func TestInstall(t *testing.T) {
	logger := zap.NewNop()
	restore := Install(logger)
	if zap.L() != logger {
		t.Fatal("expected global logger to be replaced")
	}
	restore()
	if zap.L() == logger {
		t.Fatal("expected global logger to be restored")
	}
}
