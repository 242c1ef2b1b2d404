package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Greenjacket-nomad/personal-plan/internal/db"
)

// newTreeCmd creates the tree command.
func newTreeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tree",
		Short: "Show the full plan hierarchy",
		RunE: func(cmd *cobra.Command, args []string) error {
			pdb, cfg, err := openPlan()
			if err != nil {
				return err
			}
			defer pdb.Close()

			nodes, err := pdb.Tree(owner(cfg))
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(treeJSON(nodes))
			}
			if len(nodes) == 0 {
				fmt.Println(styled(dimStyle, "Empty plan. Add a phase with 'plan add phase <title>'."))
				return nil
			}
			for _, phase := range nodes {
				printNode(phase, 0)
			}
			return nil
		},
	}
}

func printNode(n *db.TreeNode, depth int) {
	indent := ""
	for i := 0; i < depth; i++ {
		indent += "  "
	}
	fmt.Printf("%s%s %s\n", indent, styled(titleStyle, n.Item.Title), styled(dimStyle, n.Item.ID))
	for _, r := range n.Resources {
		date := ""
		if r.AssignedDate != "" {
			date = " " + styled(dateStyle, r.AssignedDate)
		}
		fmt.Printf("%s  %s %s%s %s\n", indent, statusGlyph(r.Status), r.Title, date, styled(dimStyle, r.ID))
	}
	for _, c := range n.Children {
		printNode(c, depth+1)
	}
}

type treeEntry struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Position  int            `json:"position"`
	Color     string         `json:"color,omitempty"`
	Children  []treeEntry    `json:"children,omitempty"`
	Resources []*db.Resource `json:"resources,omitempty"`
}

func treeJSON(nodes []*db.TreeNode) []treeEntry {
	entries := make([]treeEntry, 0, len(nodes))
	for _, n := range nodes {
		entries = append(entries, treeEntry{
			ID:        n.Item.ID,
			Title:     n.Item.Title,
			Position:  n.Item.Position,
			Color:     n.Color,
			Children:  treeJSON(n.Children),
			Resources: n.Resources,
		})
	}
	return entries
}
