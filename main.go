package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/arkide/stuffstore/cmd"
	"github.com/arkide/stuffstore/pkg/config"
	"github.com/arkide/stuffstore/pkg/utils"
)

func main() {
	config, err := config.LoadConfig()
	if err != nil {
		slog.Error(fmt.Errorf("error loading config: %w", err).Error())
		os.Exit(1)
	}

	utils.InitLogger(config)

	cmd.Execute(context.Background())
}
