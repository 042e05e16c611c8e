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

package digest

import (
	"io"
	"time"

	imap2 "github.com/vs49688/shedreport/imap"
	"github.com/vs49688/shedreport/scanner"
)

type Config struct {
	Scanner scanner.Config
	Factory imap2.ClientFactory

	// ShedURL is the catalog API root; empty means the main Galaxy
	// tool shed.
	ShedURL     string
	ShedTimeout time.Duration

	StripPlanemoCommitText bool

	// Output receives the rendered markdown and nothing else;
	// diagnostics go through logrus.
	Output io.Writer
}
