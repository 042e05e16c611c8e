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

// Package digest runs one scan-decode-enrich-report pass over a
// mailbox. Processing is strictly sequential; each message is decoded,
// enriched, and aggregated before the next is fetched.
package digest

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/vs49688/shedreport/notification"
	"github.com/vs49688/shedreport/report"
	"github.com/vs49688/shedreport/scanner"
	"github.com/vs49688/shedreport/shed"
)

func Run(cfg *Config) error {
	sc, err := scanner.NewScanner(&cfg.Scanner, cfg.Factory)
	if err != nil {
		return err
	}
	defer sc.Close()

	uids, err := sc.Search()
	if err != nil {
		return err
	}

	log.WithField("count", len(uids)).Info("digest_matching_messages")

	shedClient := shed.NewClient(cfg.ShedURL, cfg.ShedTimeout)

	opts := &notification.DecodeOptions{
		Sender:                 cfg.Scanner.Sender,
		StripPlanemoCommitText: cfg.StripPlanemoCommitText,
	}

	index := report.NewIndex()

	for _, uid := range uids {
		header, body, err := sc.FetchNotification(uid)
		if err != nil {
			return err
		}

		n, err := notification.Decode(header, body, opts)
		if errors.Is(err, notification.ErrNotToolShed) {
			log.WithField("uid", uid).Warn("digest_not_a_tool_shed_notification")
			continue
		} else if err != nil {
			log.WithError(err).WithField("uid", uid).Warn("digest_undecodable_notification")
			continue
		}

		info, err := shedClient.RepositoryRevisionInfo(n.Name, n.Author, n.Revision)
		if err != nil {
			// No partial reports: a catalog failure aborts the run.
			return fmt.Errorf("lookup of %v/%v@%v failed: %w", n.Author, n.Name, n.Revision, err)
		}

		n.Enrich(info)

		log.WithFields(log.Fields{
			"uid":        uid,
			"repository": n.Name,
			"author":     n.Author,
			"revision":   n.Revision,
			"kind":       n.Kind().String(),
			"passe":      n.Passe,
		}).Debug("digest_processed_notification")

		if err := index.Add(n); errors.Is(err, report.ErrUnrecognized) {
			log.WithFields(log.Fields{
				"uid":     uid,
				"subject": n.Subject,
			}).Warn("digest_unrecognized_subject")
		}
	}

	return index.Render(cfg.Output)
}
