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

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vs49688/shedreport/shed"
)

const newHeader = "From: galaxy-no-reply@toolshed.g2.bx.psu.edu\r\n" +
	"Subject: Galaxy tool shed alert\r\n\r\n"

const newBody = "\r\n" +
	"Sharable link:         https://toolshed.g2.bx.psu.edu/view/kaymccoy/calculate_fitness\r\n" +
	"Repository name:       calculate_fitness\r\n" +
	"Revision:              0:babd6d75a0b0\r\n" +
	"Change description:\r\n" +
	"Uploaded\r\n" +
	"\r\n" +
	"Uploaded by:           kaymccoy\r\n" +
	"Date content uploaded: 2016-11-06\r\n"

const updateHeader = "From: galaxy-no-reply@toolshed.g2.bx.psu.edu\r\n" +
	"Subject: Galaxy tool shed update alert\r\n\r\n"

const updateBody = "\r\n" +
	"Sharable link:         https://toolshed.g2.bx.psu.edu/view/devteam/ncbi_blast_plus\r\n" +
	"Repository name:       ncbi_blast_plus\r\n" +
	"Revision:              20:3034ce97dd33\r\n" +
	"Change description:\r\n" +
	"Uploaded v0.1.08, can search multiple local databases, fixes a pipe problem in blastdbcmd, and minor internal changes.\r\n" +
	"\r\n" +
	"Changed by:     peterjc\r\n" +
	"Date of change: 2016-11-07\r\n"

func TestDecodeNewRepository(t *testing.T) {
	n, err := Decode(newHeader, newBody, nil)
	if !assert.NoError(t, err) {
		t.FailNow()
	}

	assert.Equal(t, "galaxy-no-reply@toolshed.g2.bx.psu.edu", n.Sender)
	assert.Equal(t, "Galaxy tool shed alert", n.Subject)
	assert.Equal(t, "https://toolshed.g2.bx.psu.edu/view/kaymccoy/calculate_fitness", n.URL)
	assert.Equal(t, "https://toolshed.g2.bx.psu.edu/view/kaymccoy", n.AuthorURL)
	assert.Equal(t, "kaymccoy", n.Author)
	assert.Equal(t, "calculate_fitness", n.Name)
	assert.Equal(t, "babd6d75a0b0", n.Revision)
	assert.Equal(t, "", n.Commit)
	assert.Equal(t, KindNew, n.Kind())
}

func TestDecodeUpdate(t *testing.T) {
	n, err := Decode(updateHeader, updateBody, nil)
	if !assert.NoError(t, err) {
		t.FailNow()
	}

	assert.Equal(t, "devteam", n.Author)
	assert.Equal(t, "https://toolshed.g2.bx.psu.edu/view/devteam", n.AuthorURL)
	assert.Equal(t, "ncbi_blast_plus", n.Name)
	assert.Equal(t, "3034ce97dd33", n.Revision)
	assert.Equal(t, "v0.1.08, can search multiple local databases, fixes a pipe problem in blastdbcmd, and minor internal changes.", n.Commit)
	assert.Equal(t, KindUpdate, n.Kind())
}

func TestDecodeFreeTextCommit(t *testing.T) {
	body := "\r\n" +
		"Sharable link:         https://toolshed.g2.bx.psu.edu/view/devteam/bowtie2\r\n" +
		"Repository name:       bowtie2\r\n" +
		"Revision:              7:a9d4f8368182\r\n" +
		"Change description:\r\n" +
		"Fixed the index builder\r\n" +
		"\r\n" +
		"Changed by:     devteam\r\n" +
		"Date of change: 2016-11-08\r\n"

	n, err := Decode(updateHeader, body, nil)
	if !assert.NoError(t, err) {
		t.FailNow()
	}

	assert.Equal(t, "Fixed the index builder.", n.Commit)
}

func TestDecodePlanemoCommitText(t *testing.T) {
	body := "\r\n" +
		"Sharable link:         https://toolshed.g2.bx.psu.edu/view/iuc/seqtk\r\n" +
		"Repository name:       seqtk\r\n" +
		"Revision:              3:1e9a3d4a0b5c\r\n" +
		"Change description:\r\n" +
		"planemo upload commit 1e9a3d4a0b5c\r\n" +
		"\r\n" +
		"Changed by:     iuc\r\n" +
		"Date of change: 2016-11-09\r\n"

	t.Run("kept", func(t *testing.T) {
		n, err := Decode(updateHeader, body, nil)
		if !assert.NoError(t, err) {
			t.FailNow()
		}
		assert.Equal(t, "planemo upload commit 1e9a3d4a0b5c.", n.Commit)
	})

	t.Run("stripped", func(t *testing.T) {
		n, err := Decode(updateHeader, body, &DecodeOptions{StripPlanemoCommitText: true})
		if !assert.NoError(t, err) {
			t.FailNow()
		}
		assert.Equal(t, "", n.Commit)
	})
}

func TestDecodeWrongSender(t *testing.T) {
	header := "From: mallory@example.com\r\n" +
		"Subject: Galaxy tool shed alert\r\n\r\n"

	n, err := Decode(header, newBody, nil)
	assert.ErrorIs(t, err, ErrNotToolShed)
	assert.Nil(t, n)
}

func TestDecodeMalformed(t *testing.T) {
	t.Run("missing_revision", func(t *testing.T) {
		body := "\r\n" +
			"Sharable link:         https://toolshed.g2.bx.psu.edu/view/kaymccoy/calculate_fitness\r\n" +
			"Change description:\r\n" +
			"Uploaded by:           kaymccoy\r\n"

		_, err := Decode(newHeader, body, nil)
		assert.ErrorIs(t, err, ErrMalformed)
	})

	t.Run("missing_link", func(t *testing.T) {
		_, err := Decode(newHeader, "\r\nRevision: 0:abc\r\n", nil)
		assert.ErrorIs(t, err, ErrMalformed)
	})

	t.Run("unterminated_description", func(t *testing.T) {
		body := "\r\n" +
			"Sharable link:         https://toolshed.g2.bx.psu.edu/view/kaymccoy/calculate_fitness\r\n" +
			"Repository name:       calculate_fitness\r\n" +
			"Revision:              0:babd6d75a0b0\r\n" +
			"Change description:\r\n" +
			"Uploaded\r\n"

		_, err := Decode(newHeader, body, nil)
		assert.ErrorIs(t, err, ErrMalformed)
	})

	t.Run("missing_headers", func(t *testing.T) {
		_, err := Decode("X-Whatever: yes\r\n", newBody, nil)
		assert.ErrorIs(t, err, ErrMalformed)
	})
}

func TestKind(t *testing.T) {
	tests := []struct {
		subject  string
		expected Kind
	}{
		{"Galaxy tool shed alert", KindNew},
		{"Galaxy tool shed update alert", KindUpdate},
		{"Galaxy tool shed maintenance notice", KindUnrecognized},
		{"short subject", KindUnrecognized},
	}

	for _, tc := range tests {
		n := &Notification{Subject: tc.subject}
		assert.Equal(t, tc.expected, n.Kind(), tc.subject)
	}
}

func TestEnrich(t *testing.T) {
	n, err := Decode(newHeader, newBody, nil)
	if !assert.NoError(t, err) {
		t.FailNow()
	}

	assert.Equal(t, "Unknown", n.Type)

	n.Enrich(&shed.RepositoryInfo{
		Description:     "Calculates fitness",
		LongDescription: "Calculates fitness from sequencing\ndata",
		Type:            "unrestricted",
		Deprecated:      true,
	})

	assert.Equal(t, "Calculates fitness.", n.Synopsis)
	assert.Equal(t, "Calculates fitness from sequencing  data.", n.Description)
	assert.Equal(t, "unrestricted", n.Type)
	assert.True(t, n.Passe)
}
