package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"leadhub/internal/services"
)

func TestWriteTransitionError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"лид не найден", services.ErrLeadNotFound, http.StatusNotFound},
		{"неизвестный этап", services.ErrStageUnknown, http.StatusBadRequest},
		{"этап не выбирается", services.ErrStageNotSelectable, http.StatusConflict},
		{"не тот шаг", services.ErrWrongStep, http.StatusConflict},
		{"поток закрыт", services.ErrFlowClosed, http.StatusGone},
		{"реестр пуст", services.ErrNoStages, http.StatusServiceUnavailable},
		{"прочее", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			writeTransitionError(c, tt.err)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}
