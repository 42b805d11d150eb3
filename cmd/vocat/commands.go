package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"github.com/authcorp/valueobject/codec"
	"github.com/authcorp/valueobject/internal/catalog"
	"github.com/authcorp/valueobject/schema"
	"github.com/authcorp/valueobject/validation"
	"github.com/authcorp/valueobject/vo"
	"github.com/spf13/cobra"
)

func newSchemaCmd(a *app) *cobra.Command {
	var (
		typeName string
		watch    bool
	)
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of catalog types",
		Long: `Print the JSON schema of every catalog type, keyed by name, or of a
single type selected with --type.

With --watch the schemas are printed again every time the catalog file
changes, until interrupted.

Examples:
  vocat schema
  vocat schema --type Email | jq .format
  vocat schema --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := printSchemas(a, a.catalog, typeName); err != nil {
				return err
			}
			if !watch {
				return nil
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return catalog.Watch(ctx, a.cfg.Catalog.Path, func(c *catalog.Catalog, err error) {
				if err != nil {
					return
				}
				a.catalog = c
				if err := printSchemas(a, c, typeName); err != nil {
					a.logger.Error("failed to print schemas", "error", err)
				}
			}, a.catOpts...)
		},
	}
	cmd.Flags().StringVarP(&typeName, "type", "t", "", "catalog type name")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "print again when the catalog changes")
	return cmd
}

func printSchemas(a *app, c *catalog.Catalog, typeName string) error {
	var doc any
	if typeName != "" {
		e, err := c.Lookup(typeName)
		if err != nil {
			return err
		}
		doc = e.Schema()
	} else {
		all := make(map[string]*schema.Schema, c.Len())
		for _, e := range c.Entries() {
			all[e.Name()] = e.Schema()
		}
		doc = all
	}
	out, err := codec.NewJSONCodec().WithPretty().Encode(doc)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.out, string(out))
	return err
}

func newValidateCmd(a *app) *cobra.Command {
	var typeName string
	cmd := &cobra.Command{
		Use:   "validate --type NAME VALUE...",
		Short: "Validate values against a catalog type",
		Long: `Parse each VALUE with the text form of the type, validate it and print
the normalized payload as JSON, one line per value. Sensitive payloads are
printed masked. Issues are written to stderr and the exit status is 1 when
any value is invalid.

Examples:
  vocat validate --type Email " Ada@Example.com "
  vocat validate --type Port 80 443 70000`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.catalog.Lookup(typeName)
			if err != nil {
				return err
			}
			failed := 0
			for _, text := range args {
				obj, err := e.Parse(text)
				if err != nil {
					failed++
					a.logger.Debug("value rejected", "type", e.Name(), "error", err)
					printIssues(a, text, err, e.Spec.Sensitive)
					continue
				}
				line, err := encodeValue(obj)
				if err != nil {
					return err
				}
				fmt.Fprintln(a.out, line)
			}
			if failed > 0 {
				return errInvalidValues
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&typeName, "type", "t", "", "catalog type name")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func encodeValue(obj vo.Object) (string, error) {
	if obj.Sensitive() {
		return fmt.Sprintf("%q", vo.MaskPlaceholder), nil
	}
	out, err := codec.JSON.Encode(obj)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func printIssues(a *app, text string, err error, mask bool) {
	if mask {
		text = vo.MaskPlaceholder
	}
	verr, ok := vo.AsType[*validation.Error](err)
	if !ok {
		fmt.Fprintf(a.errOut, "%q: %v\n", text, err)
		return
	}
	fmt.Fprintf(a.errOut, "%q: %s\n", text, strings.Join(verr.Messages(), "; "))
}

func newKindsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List registered kinds and the raw types they accept",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "KIND\tPARENT\tACCEPTS")
			for _, k := range a.registry.Kinds() {
				types := a.registry.AcceptedTypes(k)
				names := make([]string, len(types))
				for i, t := range types {
					names[i] = t.String()
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", k.Name(), k.Parent().Name(), strings.Join(names, ", "))
			}
			return w.Flush()
		},
	}
}
