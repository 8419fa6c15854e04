// Copyright (C) 2024-2025 The minahash Authors
// This file is part of minahash
//
// minahash is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// minahash is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with minahash.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mina-go/minahash/data/hashes"
	"github.com/mina-go/minahash/protocol"
)

type kindRow struct {
	Name         string   `codec:"name"`
	VersionByte  string   `codec:"version_byte,omitempty"`
	RawString    bool     `codec:"raw_string,omitempty"`
	WireVersions []uint64 `codec:"wire_versions"`
	Size         int      `codec:"size"`
	Field        bool     `codec:"field"`
	Contribution string   `codec:"contribution"`
}

func kindRows() []kindRow {
	rows := make([]kindRow, 0, len(hashes.Kinds()))
	for _, k := range hashes.Kinds() {
		info := k.Info()
		row := kindRow{
			Name:         info.Name,
			RawString:    info.RawString,
			Size:         info.Size,
			Field:        info.FieldRepresentable,
			Contribution: info.Contribution.String(),
		}
		if info.HasString {
			row.VersionByte = info.VersionByte.String()
		}
		for _, v := range info.WireVersions {
			row.WireVersions = append(row.WireVersions, uint64(v))
		}
		rows = append(rows, row)
	}
	return rows
}

func newKindsCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "kinds",
		Short: "List the hash kinds and their encodings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rows := kindRows()
			if asJSON {
				enc := protocol.NewJSONEncoder(cmd.OutOrStdout())
				if err := enc.Encode(rows); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout())
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KIND\tBYTE\tWIRE\tSIZE\tRO INPUT\tNOTES")
			for _, row := range rows {
				b := row.VersionByte
				if b == "" {
					b = "-"
				}
				var notes []string
				if row.RawString {
					notes = append(notes, "raw string payload")
				}
				wire := make([]string, len(row.WireVersions))
				for i, v := range row.WireVersions {
					wire[i] = fmt.Sprint(v)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", row.Name, b, strings.Join(wire, "."), sizeString(row.Size), row.Contribution, strings.Join(notes, "; "))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the table as JSON")
	return cmd
}

func sizeString(size int) string {
	switch size {
	case hashes.SizeVariable:
		return "var"
	case hashes.SizeComposite:
		return "-"
	}
	return fmt.Sprint(size)
}
