package api

import (
	"github.com/nrasaily/SleepSentinelPro/internal"
	"github.com/nrasaily/SleepSentinelPro/internal/provider"
	"github.com/nrasaily/SleepSentinelPro/internal/service"
)

type App interface {
	Logger() internal.Logger
	Sleep() *service.SleepService
	// Provider is nil when no provider adapter is configured.
	Provider() provider.SegmentProvider
	ExportPath() string
}
