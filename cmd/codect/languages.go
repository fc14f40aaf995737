package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"codect/internal/detector"
)

func newLanguagesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List supported languages and the file extensions mapped to them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := a.engine()
			if err != nil {
				return err
			}

			byLang := make(map[string][]string)
			for ext, lang := range detector.New().Extensions() {
				byLang[lang] = append(byLang[lang], ext)
			}
			for _, lang := range eng.Languages() {
				exts := byLang[lang]
				sort.Strings(exts)
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s %s\n", lang, strings.Join(exts, " "))
			}
			return nil
		},
	}
}
