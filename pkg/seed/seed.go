// Package seed generates the initial taxonomy dataset. It parses a reference
// document into governance groups and taxonomy nodes, validates the resulting
// tree, and emits idempotent SQL insert statements. Generation is pure and
// deterministic: the same document always produces byte-identical output.
package seed

import (
	_ "embed"

	"github.com/google/uuid"
)

//go:embed taxonomy.md
var defaultDocument []byte

// DefaultDocument returns the embedded taxonomy reference document.
func DefaultDocument() []byte {
	return defaultDocument
}

// Branch values for seed nodes.
const (
	BranchSoftware = "software"
	BranchHardware = "hardware"
)

// idNamespace prefixes names before hashing so ids do not collide with other
// uuid5 users of the DNS namespace.
const idNamespace = "sorting-hat."

// MakeID derives a deterministic UUID from a logical name. The same name
// always yields the same id, which keeps repeated seed runs idempotent.
func MakeID(name string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceDNS, []byte(idNamespace+name))
}

// Group is a governance group seed record.
type Group struct {
	Name           string
	Slug           string
	Description    string
	CoversSoftware bool
	CoversHardware bool
	SortOrder      int
}

// Node is a taxonomy node seed record. ParentPath is empty for tree roots.
type Node struct {
	GroupSlug                     string
	ParentPath                    string
	Path                          string
	Name                          string
	Slug                          string
	Level                         int
	Branch                        string
	Definition                    string
	DistinguishingCharacteristics string
	Inclusions                    string
	Exclusions                    string
	SortOrder                     int
}

// Document is a parsed seed dataset.
type Document struct {
	Groups []Group
	Nodes  []*Node
}

// Groups returns the fixed governance group seed set: five software-only
// groups and five that govern both software and hardware.
func Groups() []Group {
	return []Group{
		{
			Name:           "Application Development & Platform",
			Slug:           "application-development-platform",
			Description:    "Building, testing, deploying, and maintaining software; developer tools and platforms",
			CoversSoftware: true,
			SortOrder:      1,
		},
		{
			Name:           "Business Operations",
			Slug:           "business-operations",
			Description:    "Back-office systems: ERP, finance, HR, procurement, supply chain, legal, compliance",
			CoversSoftware: true,
			SortOrder:      2,
		},
		{
			Name:           "Customer & Revenue Technology",
			Slug:           "customer-revenue-technology",
			Description:    "Front-office systems: CRM, marketing, sales enablement, e-commerce, customer success",
			CoversSoftware: true,
			SortOrder:      3,
		},
		{
			Name:           "Data & Analytics",
			Slug:           "data-analytics",
			Description:    "Collecting, storing, processing, analyzing, and visualizing data; AI/ML platforms",
			CoversSoftware: true,
			SortOrder:      4,
		},
		{
			Name:           "Collaboration & Communication",
			Slug:           "collaboration-communication",
			Description:    "Enabling people to work together and communicate, both software and physical devices",
			CoversSoftware: true,
			CoversHardware: true,
			SortOrder:      5,
		},
		{
			Name:           "End-User Computing",
			Slug:           "end-user-computing",
			Description:    "Individual productivity software and personal work devices",
			CoversSoftware: true,
			CoversHardware: true,
			SortOrder:      6,
		},
		{
			Name:           "Security",
			Slug:           "security",
			Description:    "Protecting information, systems, and infrastructure from threats",
			CoversSoftware: true,
			CoversHardware: true,
			SortOrder:      7,
		},
		{
			Name:           "IT Operations & Infrastructure",
			Slug:           "it-operations-infrastructure",
			Description:    "Managing, monitoring, and maintaining IT systems; compute and storage hardware",
			CoversSoftware: true,
			CoversHardware: true,
			SortOrder:      8,
		},
		{
			Name:           "Engineering & Design",
			Slug:           "engineering-design",
			Description:    "Specialized tools for engineering, manufacturing, design, and media production",
			CoversSoftware: true,
			SortOrder:      9,
		},
		{
			Name:           "Networking",
			Slug:           "networking",
			Description:    "Connecting systems, managing network infrastructure, enabling device communication",
			CoversSoftware: true,
			CoversHardware: true,
			SortOrder:      10,
		},
	}
}

// groupNumberToSlug maps the reference document's section numbers to group slugs.
var groupNumberToSlug = map[int]string{
	1:  "application-development-platform",
	2:  "business-operations",
	3:  "customer-revenue-technology",
	4:  "data-analytics",
	5:  "collaboration-communication",
	6:  "end-user-computing",
	7:  "security",
	8:  "it-operations-infrastructure",
	9:  "engineering-design",
	10: "networking",
}
