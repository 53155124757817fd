package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kardianos/service"
	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"doctor/pkg/config"
)

var serviceCmd = &cobra.Command{
	Use:   "service",
	Short: "Manage the bot as a system service",
	Long: `Install and control the bot as a system service.

Examples:
  sudo doctor service install
  sudo doctor service start
  doctor service status
  sudo doctor service uninstall`,
}

func init() {
	actions := []struct {
		use   string
		short string
		run   func(service.Service) error
		done  string
	}{
		{"install", "Install the bot as a system service", service.Service.Install, "Service installed. Use 'doctor service start' to start it."},
		{"uninstall", "Uninstall the bot service", service.Service.Uninstall, "Service uninstalled."},
		{"start", "Start the bot service", service.Service.Start, "Service started."},
		{"stop", "Stop the bot service", service.Service.Stop, "Service stopped."},
		{"restart", "Restart the bot service", service.Service.Restart, "Service restarted."},
	}
	for _, a := range actions {
		serviceCmd.AddCommand(&cobra.Command{
			Use:   a.use,
			Short: a.short,
			Run: func(cmd *cobra.Command, args []string) {
				if err := controlService(a.run); err != nil {
					fmt.Fprintf(os.Stderr, "Error: %v\n", err)
					fmt.Fprintln(os.Stderr, "\nNote: managing system services usually requires administrator privileges.")
					os.Exit(1)
				}
				fmt.Println(a.done)
			},
		})
	}

	serviceCmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the bot service status",
		Run: func(cmd *cobra.Command, args []string) {
			status, err := serviceStatus()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error checking service status: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("Service Status: %s\n", status)
		},
	})
}

// BotService runs the bot under a service manager.
type BotService struct {
	app    *fx.App
	logger service.Logger
}

// Start implements service.Interface.
func (s *BotService) Start(svc service.Service) error {
	if s.logger != nil {
		s.logger.Info("Starting doctor service")
	}

	s.app = newBotApp()
	if err := s.app.Err(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return s.app.Start(ctx)
}

// Stop implements service.Interface.
func (s *BotService) Stop(svc service.Service) error {
	if s.logger != nil {
		s.logger.Info("Stopping doctor service")
	}
	if s.app == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.app.Stop(ctx); err != nil {
		if s.logger != nil {
			s.logger.Errorf("Error stopping service: %v", err)
		}
		return err
	}
	return nil
}

// ServiceConfig describes the service to the platform's service manager.
func ServiceConfig() *service.Config {
	args := []string{"run"}
	path := strings.TrimSpace(configPath)
	if path == "" {
		path = strings.TrimSpace(os.Getenv(config.ConfigPathEnv))
	}
	if path != "" {
		args = append([]string{"-c", path}, args...)
	}

	return &service.Config{
		Name:        "doctor",
		DisplayName: "Doctor",
		Description: "Javadoc lookup bot for Discord",
		Arguments:   args,
	}
}

func newService() (service.Service, *BotService, error) {
	prg := &BotService{}
	s, err := service.New(prg, ServiceConfig())
	if err != nil {
		return nil, nil, fmt.Errorf("creating service: %w", err)
	}
	return s, prg, nil
}

func controlService(action func(service.Service) error) error {
	s, _, err := newService()
	if err != nil {
		return err
	}
	return action(s)
}

func serviceStatus() (string, error) {
	s, _, err := newService()
	if err != nil {
		return "", err
	}

	status, err := s.Status()
	if err != nil {
		return "", fmt.Errorf("getting service status: %w", err)
	}
	switch status {
	case service.StatusRunning:
		return "Running", nil
	case service.StatusStopped:
		return "Stopped", nil
	default:
		return "Unknown", nil
	}
}

// RunService hands control to the service manager.
func RunService() error {
	s, prg, err := newService()
	if err != nil {
		return err
	}

	log, err := s.Logger(nil)
	if err != nil {
		return fmt.Errorf("creating service logger: %w", err)
	}
	prg.logger = log

	if err := s.Run(); err != nil {
		log.Error(err)
		return err
	}
	return nil
}
