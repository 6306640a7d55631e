package seed

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/sortinghat-io/sortinghat/pkg/slug"
)

// maxDepth is the deepest node level the reference document may declare.
const maxDepth = 4

var fieldMarkers = []string{
	"*Distinguishing characteristics:*",
	"*Includes:*",
	"*Does not include:*",
}

// ParseDocument reads a taxonomy reference document and produces the seed
// dataset. Heading depth maps to node level: "###" headings declare level-2
// tree roots (tagged with their branch), "####" level 3, "#####" level 4.
// Prose between headings becomes the node's definition block.
func ParseDocument(r io.Reader) (*Document, error) {
	doc := &Document{Groups: Groups()}

	var (
		groupSlug string
		ancestors [maxDepth + 1]*Node
		current   *Node
		block     strings.Builder
		siblings  = make(map[string]int)
		lineNo    int
	)

	flush := func() {
		if current == nil {
			return
		}
		def, characteristics, inclusions, exclusions := parseDefinitionFields(block.String())
		current.Definition = def
		current.DistinguishingCharacteristics = characteristics
		current.Inclusions = inclusions
		current.Exclusions = exclusions
		block.Reset()
	}

	heading := func(level int, title string) error {
		flush()

		if groupSlug == "" {
			return fmt.Errorf("line %d: node heading before any group section", lineNo)
		}

		var (
			name   string
			branch string
			parent *Node
		)

		if level == 2 {
			var err error
			name, branch, err = splitBranchTag(title)
			if err != nil {
				return fmt.Errorf("line %d: %w", lineNo, err)
			}
		} else {
			name = strings.TrimSpace(title)
			parent = ancestors[level-1]
			if parent == nil {
				return fmt.Errorf("line %d: level %d heading %q has no parent heading", lineNo, level, name)
			}
			branch = parent.Branch
		}

		if name == "" {
			return fmt.Errorf("line %d: empty heading", lineNo)
		}

		parentPath := ""
		if parent != nil {
			parentPath = parent.Path
		}

		siblings[parentPath]++
		node := &Node{
			GroupSlug:  groupSlug,
			ParentPath: parentPath,
			Path:       slug.ChildPath(parentPath, name),
			Name:       name,
			Slug:       slug.Slugify(name),
			Level:      level,
			Branch:     branch,
			SortOrder:  siblings[parentPath],
		}
		if parent != nil {
			node.GroupSlug = parent.GroupSlug
		}

		ancestors[level] = node
		for i := level + 1; i <= maxDepth; i++ {
			ancestors[i] = nil
		}
		current = node
		doc.Nodes = append(doc.Nodes, node)
		return nil
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		switch {
		case strings.HasPrefix(line, "##### "):
			if err := heading(4, line[6:]); err != nil {
				return nil, err
			}
		case strings.HasPrefix(line, "#### "):
			if err := heading(3, line[5:]); err != nil {
				return nil, err
			}
		case strings.HasPrefix(line, "### "):
			if err := heading(2, line[4:]); err != nil {
				return nil, err
			}
		case strings.HasPrefix(line, "## "):
			flush()
			current = nil
			for i := range ancestors {
				ancestors[i] = nil
			}

			var err error
			groupSlug, err = parseGroupHeading(line[3:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
		case strings.HasPrefix(line, "# "):
			// Document title.
		default:
			if current != nil {
				block.WriteString(line)
				block.WriteString("\n")
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	flush()
	return doc, nil
}

// parseGroupHeading extracts the group section number from a "## N. Name"
// heading and maps it to a governance group slug.
func parseGroupHeading(title string) (string, error) {
	title = strings.TrimSpace(title)
	idx := strings.Index(title, ".")
	if idx < 1 {
		return "", fmt.Errorf("group heading %q missing section number", title)
	}

	number, err := strconv.Atoi(title[:idx])
	if err != nil {
		return "", fmt.Errorf("group heading %q has invalid section number", title)
	}

	groupSlug, ok := groupNumberToSlug[number]
	if !ok {
		return "", fmt.Errorf("group heading %q references unknown section %d", title, number)
	}
	return groupSlug, nil
}

// splitBranchTag separates a level-2 heading into its name and required
// branch tag, e.g. "Security (Software) [software]".
func splitBranchTag(title string) (name, branch string, err error) {
	title = strings.TrimSpace(title)

	switch {
	case strings.HasSuffix(title, "[software]"):
		branch = BranchSoftware
		name = strings.TrimSpace(strings.TrimSuffix(title, "[software]"))
	case strings.HasSuffix(title, "[hardware]"):
		branch = BranchHardware
		name = strings.TrimSpace(strings.TrimSuffix(title, "[hardware]"))
	default:
		return "", "", fmt.Errorf("root heading %q missing [software] or [hardware] tag", title)
	}

	return name, branch, nil
}

// parseDefinitionFields splits a prose block on the three fixed marker
// phrases. Text before the first marker is the definition; each marker's
// value runs to the next marker or the end of the block. Blocks with no
// markers are definition only.
func parseDefinitionFields(text string) (definition, characteristics, inclusions, exclusions string) {
	remaining := strings.TrimSpace(text)

	type split struct {
		start  int
		end    int
		marker string
	}

	splits := make([]split, 0, len(fieldMarkers))
	for _, marker := range fieldMarkers {
		if idx := strings.Index(remaining, marker); idx >= 0 {
			splits = append(splits, split{start: idx, end: idx + len(marker), marker: marker})
		}
	}

	if len(splits) == 0 {
		return remaining, "", "", ""
	}

	sort.Slice(splits, func(i, j int) bool { return splits[i].start < splits[j].start })

	definition = strings.TrimSpace(remaining[:splits[0].start])

	for i, s := range splits {
		end := len(remaining)
		if i+1 < len(splits) {
			end = splits[i+1].start
		}
		value := strings.TrimSpace(remaining[s.end:end])

		switch s.marker {
		case fieldMarkers[0]:
			characteristics = value
		case fieldMarkers[1]:
			inclusions = value
		case fieldMarkers[2]:
			exclusions = value
		}
	}

	return definition, characteristics, inclusions, exclusions
}
