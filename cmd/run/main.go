/*
 * ShedReport - Copyright (C) 2022 Zane van Iperen.
 *    Contact: zane@zanevaniperen.com
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU General Public License version 2, and only
 * version 2 as published by the Free Software Foundation.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program; if not, write to the Free Software
 * Foundation, Inc., 59 Temple Place, Suite 330, Boston, MA  02111-1307  USA
 */

package run

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"github.com/vs49688/shedreport/cmd/config"
	"github.com/vs49688/shedreport/digest"
)

func RegisterCommand(app *cli.App) *cli.App {
	cfg := &config.CliConfig{PasswordPrompt: config.DefaultConfig().PasswordPrompt}
	app.Commands = append(app.Commands, &cli.Command{
		Name:   "run",
		Usage:  "Generate the digest",
		Flags:  cfg.Parameters(),
		Action: func(context *cli.Context) error { return run(context, cfg) },
	})
	return app
}

func run(_ *cli.Context, cfg *config.CliConfig) error {
	logLevel, err := log.ParseLevel(cfg.LogLevel)
	if err == nil {
		log.SetLevel(logLevel)
	}

	if cfg.LogFormat == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	}

	log.WithFields(log.Fields{
		"url":         cfg.IMAP.URL,
		"auth_method": cfg.IMAP.AuthMethod,
		"email":       cfg.IMAP.Email,
		"to_email":    cfg.ToEmail,
		"mailbox":     cfg.Mailbox,
		"sent_since":  cfg.SentSince,
		"sent_before": cfg.SentBefore,
		"sender":      cfg.Sender,
		"shed_url":    cfg.ShedURL,
		"log_level":   cfg.LogLevel,
		"log_format":  cfg.LogFormat,
	}).Info("starting")

	digestConfig, err := cfg.Resolve()
	if err != nil {
		return err
	}

	digestConfig.Output = os.Stdout

	return digest.Run(&digestConfig)
}
