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
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mina-go/minahash/data/hashes"
	"github.com/mina-go/minahash/protocol"
)

const (
	formatJSON = "json"
	formatBin  = "bin"
	formatMsgp = "msgp"
)

type msgpValue interface {
	hashes.Value
	protocol.Marshaler
	protocol.Unmarshaler
}

func detectFormat(in string) string {
	if strings.HasPrefix(in, "{") || strings.HasPrefix(in, "\"") {
		return formatJSON
	}
	return formatBin
}

func decodeAs(v hashes.Value, format, in string) error {
	switch format {
	case formatJSON:
		return v.UnmarshalJSON([]byte(in))
	case formatBin, formatMsgp:
		b, err := hex.DecodeString(in)
		if err != nil {
			return fmt.Errorf("input is not hex: %w", err)
		}
		if format == formatBin {
			return v.UnmarshalBinary(b)
		}
		return protocol.Decode(b, v.(msgpValue))
	}
	return fmt.Errorf("unknown format %q", format)
}

func encodeAs(v hashes.Value, format string) (string, error) {
	switch format {
	case formatJSON:
		b, err := v.MarshalJSON()
		return string(b), err
	case formatBin:
		b, err := v.MarshalBinary()
		return hex.EncodeToString(b), err
	case formatMsgp:
		return hex.EncodeToString(protocol.Encode(v.(msgpValue))), nil
	}
	return "", fmt.Errorf("unknown format %q", format)
}

func newConvertCmd() *cobra.Command {
	var kindName, from, to string
	cmd := &cobra.Command{
		Use:   "convert INPUT",
		Short: "Convert a hash between JSON, bin_prot and msgpack",
		Long:  "Convert a hash between its JSON form and the hex of its bin_prot or msgpack encoding. INPUT may be - to read standard input.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := kindByName(kindName)
			if err != nil {
				return err
			}
			in, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			if from == "" {
				from = detectFormat(in)
			}
			if to == "" {
				to = formatBin
				if from != formatJSON {
					to = formatJSON
				}
			}

			v, err := hashes.New(k)
			if err != nil {
				return err
			}
			if err = decodeAs(v, from, in); err != nil {
				return fmt.Errorf("decoding %v from %s: %w", k, from, err)
			}
			out, err := encodeAs(v, to)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&kindName, "kind", "k", "", "Hash kind (see 'minahash kinds')")
	cmd.Flags().StringVar(&from, "from", "", "Input format: json, bin or msgp (default: detected)")
	cmd.Flags().StringVar(&to, "to", "", "Output format: json, bin or msgp (default: bin for JSON input, json otherwise)")
	cmd.MarkFlagRequired("kind")
	return cmd
}
