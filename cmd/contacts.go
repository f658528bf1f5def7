// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"

	"irmas-audit/internal/addressbook"
	"irmas-audit/internal/observability"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newContactsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contacts",
		Short: "Manage the address book",
	}
	cmd.AddCommand(newContactsImportCmd())
	return cmd
}

func newContactsImportCmd() *cobra.Command {
	var (
		encodingName string
		outputFile   string
	)

	cmd := &cobra.Command{
		Use:   "import <export.csv>",
		Short: "Convert the LDAP CSV export into the address book JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open contact export: %w", err)
			}
			defer f.Close()

			entries, err := addressbook.ImportCSV(f, encodingName)
			if err != nil {
				return err
			}

			path := outputFile
			if path == "" {
				path = appConfig.AddressBookPath()
			}
			if err := addressbook.WriteJSON(path, entries); err != nil {
				return err
			}

			idx := addressbook.BuildIndex(entries)
			if collisions := idx.Collisions(); len(collisions) > 0 {
				observability.GetLogger().Warn("address book has duplicate names, later entries win",
					zap.Strings("names", collisions))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d contacts written to %s\n", len(entries), path)
			return nil
		},
	}

	cmd.Flags().StringVar(&encodingName, "encoding", addressbook.EncodingBig5, "character encoding of the export (big5 or utf-8)")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "address book path (default: inputs.address_book)")
	return cmd
}
