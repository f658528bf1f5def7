// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package findings defines the per-category records merged for each person.
// JSON field names are the portal's column headers verbatim; downstream
// dispatch tooling reads them by these keys.
package findings

// Category identifies which scraped dataset a finding came from.
type Category string

const (
	CategoryAntivirus Category = "antivirus"
	CategoryBanned    Category = "bannedSoftwares"
	CategoryOutdated  Category = "outdatedSoftwares"
)

// Antivirus check-in status values.
const (
	StatusCorrect = "correct"
	StatusWrong   = "wrong"
)

// Finding is implemented by the three finding kinds and nothing else.
type Finding interface {
	Category() Category
	PersonName() string
}

// Device holds the host columns shared by the antivirus and banned-software
// detail tables.
type Device struct {
	IP           string  `json:"IP位址"`
	ComputerName string  `json:"電腦名稱"`
	AssetID      string  `json:"資產ID"`
	User         string  `json:"使用者"`
	OS           string  `json:"作業系統"`
	Site         string  `json:"場域名稱"`
	UpdatedAt    string  `json:"更新時間"`
	DetailLink   *string `json:"PC明細連結"`
}

// AntivirusFinding is a device that checked in with an antivirus server.
type AntivirusFinding struct {
	Device
	ReportedIP string `json:"reportedIP"`
	ExpectedIP string `json:"expectedIP"`
	Status     string `json:"status"`
}

func (AntivirusFinding) Category() Category   { return CategoryAntivirus }
func (f AntivirusFinding) PersonName() string { return f.User }

// IsWrong reports whether the device checked in with the wrong server.
func (f AntivirusFinding) IsWrong() bool { return f.Status == StatusWrong }

// NewAntivirusFinding derives the check-in status from the bucket the device
// was listed under. Comparison is exact string equality.
func NewAntivirusFinding(device Device, reportedIP, expectedIP string) AntivirusFinding {
	status := StatusWrong
	if reportedIP == expectedIP {
		status = StatusCorrect
	}
	return AntivirusFinding{
		Device:     device,
		ReportedIP: reportedIP,
		ExpectedIP: expectedIP,
		Status:     status,
	}
}

// BannedSoftwareFinding is a device with software from the banned list.
type BannedSoftwareFinding struct {
	Device
	SoftwareName string `json:"softwareName"`
}

func (BannedSoftwareFinding) Category() Category   { return CategoryBanned }
func (f BannedSoftwareFinding) PersonName() string { return f.User }

// OutdatedSoftwareFinding is one install below the policy's minimum version.
type OutdatedSoftwareFinding struct {
	IP         string `json:"IP位址"`
	Name       string `json:"Name"`
	Dept       string `json:"Dept"`
	Software   string `json:"Software"`
	Installed  string `json:"Installed"`
	Required   string `json:"Required"`
	SourceFile string `json:"SourceFile"`
}

func (OutdatedSoftwareFinding) Category() Category   { return CategoryOutdated }
func (f OutdatedSoftwareFinding) PersonName() string { return f.Name }
