package main

import (
	"go.uber.org/fx"

	"github.com/feedfusion/bot-service/internal/app"
)

func main() {
	fx.New(app.CreateApp()).Run()
}
