// Package domain contains all domain modules
package domain

import (
	"go.uber.org/fx"

	"github.com/feedfusion/bot-service/internal/domain/feed"
)

// Module aggregates all domain modules for fx dependency injection
var Module = fx.Module("domain",
	feed.Module,
)
