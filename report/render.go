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

package report

import (
	"fmt"
	"io"
)

// Render writes the markdown digest. Output is deterministic for a
// given index: three fixed sections, nesting by type, then author, then
// repository, all in insertion order.
func (x *Index) Render(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "### New Tools"); err != nil {
		return err
	}

	for _, repoType := range x.newTools.types {
		fmt.Fprintf(w, "\n#### %s\n", repoType)

		ag := x.newTools.byType[repoType]
		for _, author := range ag.authors {
			rg := ag.byAuthor[author]

			first := true
			for _, name := range rg.names {
				for _, n := range rg.byName[name] {
					if first {
						fmt.Fprintf(w, "* *From [%s](%s):*\n", n.Author, n.AuthorURL)
						first = false
					}
					fmt.Fprintf(w, "   * [%s](%s): %s %s %s\n", n.Name, n.URL, n.Commit, n.Synopsis, n.Description)
				}
			}
		}
	}

	fmt.Fprintf(w, "\n\n### Select Updates \n")
	for _, repoType := range x.updates.types {
		fmt.Fprintf(w, "\n#### %s\n", repoType)

		ag := x.updates.byType[repoType]
		for _, author := range ag.authors {
			rg := ag.byAuthor[author]

			first := true
			for _, name := range rg.names {
				for _, n := range rg.byName[name] {
					if first {
						fmt.Fprintf(w, "* *From [%s](%s):*\n", n.Author, n.AuthorURL)
						first = false
					}
					fmt.Fprintf(w, "   * [%s](%s): %s\n", n.Name, n.URL, n.Commit)
				}
			}
		}
	}

	fmt.Fprintf(w, "\n\n### Passe\n")
	for _, n := range x.passe {
		fmt.Fprintf(w, "   * [%s](%s): %s\n", n.Name, n.URL, n.Commit)
	}

	return nil
}
