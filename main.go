package main

import (
	"fmt"
	"os"

	"commentary-check/cmd"
	"commentary-check/pkg/util"

	"go.uber.org/zap"
)

func main() {
	if _, err := util.InitLogger(false); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := cmd.NewRootCommand().Execute(); err != nil {
		zap.S().Errorf("%v", err)
		_ = zap.L().Sync()
		os.Exit(1)
	}
}
