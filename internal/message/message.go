// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package message renders the HTML notification body sent to each person.
//
// The fragments and their wording are consumed by the mail dispatch tooling
// as is. Values are interpolated verbatim.
package message

import (
	"fmt"
	"strings"

	"irmas-audit/internal/registry"
)

const (
	antivirusWrongHeader = "<p>你的設備有錯誤的防毒伺服器報到紀錄：</p>"
	antivirusAllCorrect  = "<p>你的所有設備皆向正確的防毒伺服器報到。</p>"
	bannedHeader         = "<p>偵測到你的設備含有禁止使用的軟體：</p>"
	outdatedHeader       = "<p>你的設備有下列軟體需要更新：</p>"
	noIssues             = "<p>未偵測到任何問題。</p>"

	antivirusItem = "<li>%s（%s） 報到於 %s，正確應為 %s</li>"
	bannedItem    = "<li>%s（IP：%s，電腦：%s）</li>"
	outdatedItem  = "<li>%s（目前 %s，需更新至 %s），IP：%s</li>"
)

// Synthesize builds the message for rec. Sections appear in the order
// antivirus, banned software, outdated software, and only for non-empty
// categories. The same record always yields the same string.
func Synthesize(rec *registry.PersonRecord) string {
	if !rec.HasFindings() {
		return noIssues
	}
	var b strings.Builder

	if len(rec.Antivirus) > 0 {
		wrong := rec.WrongAntivirus()
		if len(wrong) > 0 {
			b.WriteString(antivirusWrongHeader)
			b.WriteString("<ul>")
			for _, f := range wrong {
				fmt.Fprintf(&b, antivirusItem, f.ComputerName, f.IP, f.ReportedIP, f.ExpectedIP)
			}
			b.WriteString("</ul>")
		} else {
			b.WriteString(antivirusAllCorrect)
		}
	}

	if len(rec.BannedSoftwares) > 0 {
		b.WriteString(bannedHeader)
		b.WriteString("<ul>")
		for _, f := range rec.BannedSoftwares {
			fmt.Fprintf(&b, bannedItem, f.SoftwareName, f.IP, f.ComputerName)
		}
		b.WriteString("</ul>")
	}

	if len(rec.OutdatedSoftwares) > 0 {
		b.WriteString(outdatedHeader)
		b.WriteString("<ul>")
		for _, f := range rec.OutdatedSoftwares {
			fmt.Fprintf(&b, outdatedItem, f.Software, f.Installed, f.Required, f.IP)
		}
		b.WriteString("</ul>")
	}

	return b.String()
}

// Apply stores the synthesized message on every record and returns how many
// were written.
func Apply(reg *registry.Registry) int {
	records := reg.Records()
	for _, rec := range records {
		rec.Message = Synthesize(rec)
	}
	return len(records)
}
