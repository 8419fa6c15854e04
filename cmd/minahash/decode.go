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
	"encoding"
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mina-go/minahash/crypto/base58check"
	"github.com/mina-go/minahash/data/hashes"
)

// contentSetter is implemented by every kind that has a string form.
type contentSetter interface {
	hashes.Value
	encoding.TextMarshaler
	SetBytes([]byte) error
	Bytes() []byte
}

func newDecodeCmd() *cobra.Command {
	var kindName string
	var raw bool
	cmd := &cobra.Command{
		Use:   "decode STRING",
		Short: "Decode a Base58Check hash string",
		Long:  "Decode a Base58Check hash string and print its content, binary envelope and JSON form. Without --kind the kind is picked from the version byte.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if raw {
				vb, payload, err := base58check.Inspect(s)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "version byte: %v\npayload:      %x\n", vb, payload)
				return nil
			}

			var k hashes.Kind
			if kindName != "" {
				if k, err = kindByName(kindName); err != nil {
					return err
				}
			} else {
				vb, _, err := base58check.Inspect(s)
				if err != nil {
					return err
				}
				var ok bool
				if k, ok = hashes.KindForVersionByte(vb); !ok {
					return fmt.Errorf("no hash kind uses version byte %v", vb)
				}
			}

			v, err := hashes.ParseKind(k, s)
			if err != nil {
				return err
			}
			bin, err := v.MarshalBinary()
			if err != nil {
				return err
			}
			js, err := v.MarshalJSON()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "kind:    %v\n", k)
			fmt.Fprintf(out, "content: %x\n", v.(contentSetter).Bytes())
			fmt.Fprintf(out, "binary:  %x\n", bin)
			fmt.Fprintf(out, "json:    %s\n", js)
			return nil
		},
	}
	cmd.Flags().StringVarP(&kindName, "kind", "k", "", "Hash kind (see 'minahash kinds')")
	cmd.Flags().BoolVar(&raw, "raw", false, "Only check the checksum and print the version byte and payload")
	return cmd
}

func newEncodeCmd() *cobra.Command {
	var kindName string
	cmd := &cobra.Command{
		Use:   "encode HEX",
		Short: "Encode hash content bytes as a Base58Check string",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := kindByName(kindName)
			if err != nil {
				return err
			}
			if !k.Info().HasString {
				return fmt.Errorf("%v: %w", k, hashes.ErrNoStringForm)
			}
			in, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			content, err := hex.DecodeString(in)
			if err != nil {
				return fmt.Errorf("content is not hex: %w", err)
			}
			v, err := hashes.New(k)
			if err != nil {
				return err
			}
			h := v.(contentSetter)
			if err = h.SetBytes(content); err != nil {
				return err
			}
			text, err := h.MarshalText()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(text))
			return nil
		},
	}
	cmd.Flags().StringVarP(&kindName, "kind", "k", "", "Hash kind (see 'minahash kinds')")
	cmd.MarkFlagRequired("kind")
	return cmd
}
