package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inkwell/internal/service"
)

// DashboardSummary 返回后台仪表盘的聚合数据
func (a *API) DashboardSummary(c *gin.Context) {
	summary, err := a.dashboard.Summary()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to build dashboard summary")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stats":          summary.Stats,
		"topPosts":       summary.TopPosts,
		"recentComments": summary.RecentComments,
		"tagUsage":       summary.TagUsage,
		"tagChart":       service.CollapseTagUsage(summary.TagUsage, service.TagChartKeep),
	})
}
