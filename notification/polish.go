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

package notification

import "strings"

// Polish tidies free text for display: leading/trailing whitespace is
// stripped, a trailing period is added if the text is non-empty and
// doesn't already end in one, and embedded newlines are replaced with
// two spaces. Polish(Polish(s)) == Polish(s).
func Polish(text string) string {
	text = strings.TrimSpace(text)
	if len(text) > 0 && !strings.HasSuffix(text, ".") {
		text += "."
	}

	return strings.ReplaceAll(text, "\n", "  ")
}
