package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"amp_scheduler/internal/models"
	"amp_scheduler/internal/service"
)

// formInt reads a decimal form field. Anything unparsable counts as zero;
// form input is clamped downstream, never rejected.
func formInt(c *gin.Context, name string) int {
	v, err := strconv.Atoi(c.PostForm(name))
	if err != nil {
		return 0
	}
	return v
}

// setSchedule replaces all window slots from the submitted form. A slot is
// kept only when at least one of its four fields is non-zero; the service
// clamps and compacts the rest.
func (h *Handler) setSchedule(c *gin.Context) {
	windows := make([]models.TimeWindow, 0, models.MaxWindows)
	for i := 0; i < models.MaxWindows; i++ {
		windows = append(windows, models.TimeWindow{
			StartHour:   formInt(c, fmt.Sprintf("start_h_%d", i)),
			StartMinute: formInt(c, fmt.Sprintf("start_m_%d", i)),
			EndHour:     formInt(c, fmt.Sprintf("end_h_%d", i)),
			EndMinute:   formInt(c, fmt.Sprintf("end_m_%d", i)),
		})
	}

	sched := h.services.Schedule.Replace(c.Request.Context(), windows)
	if h.log != nil {
		h.log.Infow("schedule_form_applied", "windows", len(sched.Windows))
	}
	c.Redirect(http.StatusFound, "/")
}

// setVolume applies a clamped volume level from the slider form.
func (h *Handler) setVolume(c *gin.Context) {
	h.services.Schedule.SetVolume(c.Request.Context(), formInt(c, "v"))
	c.Redirect(http.StatusFound, "/")
}

// setTime writes the submitted (clamped) time and date to the clock. A
// hardware write failure is already logged by the service; the operator is
// sent back to the page either way, which shows what the clock now reads.
func (h *Handler) setTime(c *gin.Context) {
	_, _ = h.services.DeviceClock.SetTime(c.Request.Context(), service.TimeParams{
		Hour:   formInt(c, "h"),
		Minute: formInt(c, "m"),
		Second: formInt(c, "s"),
		Day:    formInt(c, "d"),
		Month:  formInt(c, "mon"),
		Year:   formInt(c, "y"),
	})
	c.Redirect(http.StatusFound, "/")
}
