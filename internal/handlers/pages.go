package handlers

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"amp_scheduler/internal/models"
)

//go:embed templates/index.html
var templatesFS embed.FS

func pageTemplates() *template.Template {
	return template.Must(template.ParseFS(templatesFS, "templates/index.html"))
}

// slotView is one editable window slot; empty slots render as zeros.
type slotView struct {
	Index  int
	Window models.TimeWindow
}

type pageView struct {
	Status models.AmpStatus
	Slots  []slotView
}

// index renders the device page: clock reading, amp/player state, the window
// edit form pre-filled with current values, volume slider and set-time form.
func (h *Handler) index(c *gin.Context) {
	status, err := h.services.Monitoring.Status(c.Request.Context())
	if err != nil {
		if h.log != nil {
			h.log.Errorw("status_page_failed", "err", err)
		}
		c.String(http.StatusInternalServerError, "status unavailable")
		return
	}

	slots := make([]slotView, models.MaxWindows)
	for i := range slots {
		slots[i].Index = i
		if i < len(status.Windows) {
			slots[i].Window = status.Windows[i]
		}
	}

	c.HTML(http.StatusOK, "index.html", pageView{Status: status, Slots: slots})
}
