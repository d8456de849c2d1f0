package main

import (
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"winbootstrap/internal/config"
	"winbootstrap/internal/execx"
	"winbootstrap/internal/restore"
	"winbootstrap/internal/system"
)

// machine supplies the machine-facing collaborators. Tests replace it.
type machine struct {
	host     system.Host
	exec     execx.Executor
	confirm  restore.Confirmer
	platform string
}

func defaultMachine() machine {
	return machine{
		host: system.NewLocal(),
		exec: execx.DefaultExecutor{},
	}
}

type commandContext struct {
	configFlag     *string
	logLevelFlag   *string
	assumeYes      *bool
	noRestorePoint *bool
	machine        machine

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error
}

func newCommandContext(m machine, configFlag, logLevelFlag *string, assumeYes, noRestorePoint *bool) *commandContext {
	return &commandContext{
		configFlag:     configFlag,
		logLevelFlag:   logLevelFlag,
		assumeYes:      assumeYes,
		noRestorePoint: noRestorePoint,
		machine:        m,
	}
}

// ensureConfig loads the configuration once and applies flag overrides.
func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.logLevelFlag != nil {
			if level := strings.TrimSpace(*c.logLevelFlag); level != "" {
				cfg.Logging.Level = strings.ToLower(level)
			}
		}
		if c.noRestorePoint != nil && *c.noRestorePoint {
			cfg.RestorePoint.Enabled = false
		}
		if err := cfg.Validate(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configExists = exists
	})
	return c.config, c.configErr
}

// confirmer picks how the restore point question is answered.
func (c *commandContext) confirmer() restore.Confirmer {
	if c.machine.confirm != nil {
		return c.machine.confirm
	}
	if c.assumeYes != nil && *c.assumeYes {
		return restore.StaticConfirmer(true)
	}
	return restore.TerminalConfirmer{}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
