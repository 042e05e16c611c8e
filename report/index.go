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

// Package report aggregates classified notifications and renders the
// markdown digest.
package report

import (
	"errors"

	log "github.com/sirupsen/logrus"
	"github.com/vs49688/shedreport/notification"
)

// ErrUnrecognized is returned for notifications whose subject is
// neither a new-repository alert nor an update alert.
var ErrUnrecognized = errors.New("unrecognized notification kind")

// grouping holds notifications nested by type, then author, then
// repository name, everything in first-insertion order. No sorting is
// done anywhere; fetch order is the report order.
type grouping struct {
	types  []string
	byType map[string]*authorGroup
}

type authorGroup struct {
	authors  []string
	byAuthor map[string]*repoGroup
}

type repoGroup struct {
	names  []string
	byName map[string][]*notification.Notification
}

func newGrouping() *grouping {
	return &grouping{byType: map[string]*authorGroup{}}
}

func (g *grouping) insert(n *notification.Notification, appendDuplicates bool) bool {
	ag, ok := g.byType[n.Type]
	if !ok {
		ag = &authorGroup{byAuthor: map[string]*repoGroup{}}
		g.types = append(g.types, n.Type)
		g.byType[n.Type] = ag
	}

	rg, ok := ag.byAuthor[n.Author]
	if !ok {
		rg = &repoGroup{byName: map[string][]*notification.Notification{}}
		ag.authors = append(ag.authors, n.Author)
		ag.byAuthor[n.Author] = rg
	}

	if _, ok := rg.byName[n.Name]; !ok {
		rg.names = append(rg.names, n.Name)
	} else if !appendDuplicates {
		return false
	}

	rg.byName[n.Name] = append(rg.byName[n.Name], n)
	return true
}

// Index collects classified notifications for rendering. The zero
// value is not usable; call NewIndex.
type Index struct {
	newTools *grouping
	updates  *grouping
	passe    []*notification.Notification
}

func NewIndex() *Index {
	return &Index{
		newTools: newGrouping(),
		updates:  newGrouping(),
	}
}

// Add routes a notification into the right bucket. Flagged
// repositories land in the passe list regardless of their subject.
// Duplicate new-repository notifications are expected (the shed often
// sends several per publication) and only the first per
// (type, author, name) is kept.
func (x *Index) Add(n *notification.Notification) error {
	if n.Passe {
		x.passe = append(x.passe, n)
		return nil
	}

	switch n.Kind() {
	case notification.KindNew:
		if !x.newTools.insert(n, false) {
			log.WithFields(log.Fields{
				"repository": n.Name,
				"author":     n.Author,
				"revision":   n.Revision,
			}).Debug("report_dropped_duplicate_new_tool")
		}
	case notification.KindUpdate:
		x.updates.insert(n, true)
	default:
		return ErrUnrecognized
	}

	return nil
}
