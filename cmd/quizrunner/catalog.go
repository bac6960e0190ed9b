package main

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pavelanni/quizrunner/internal/bank"
	"github.com/pavelanni/quizrunner/internal/model"
	"github.com/pavelanni/quizrunner/internal/sheet"
	"github.com/pavelanni/quizrunner/internal/store"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import a question bank into the catalog",
		Args:  cobra.ExactArgs(1),
		RunE:  runImport,
	}
	addLogFlags(cmd)
	f := cmd.Flags()
	f.String("db", "quizrunner.db", "SQLite catalog path")
	f.String("name", "", "Catalog name (defaults to the file name without extension)")
	f.Bool("default", false, "Use this bank when run is given no bank")
	f.Bool("replace", false, "Replace an existing bank with the same name")
	f.Bool("skip-malformed", false, "Import even if some rows are malformed")
	return cmd
}

func banksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "banks",
		Short: "List the banks in the catalog",
		Args:  cobra.NoArgs,
		RunE:  runBanks,
	}
	addLogFlags(cmd)
	f := cmd.Flags()
	f.String("db", "quizrunner.db", "SQLite catalog path")
	f.String("delete", "", "Remove the named bank from the catalog")
	return cmd
}

func checkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [bank file]",
		Short: "Report malformed rows and suspicious answers in a bank",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runCheck,
	}
	addBankFlags(cmd)
	addLogFlags(cmd)
	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	closeLog, err := setupLogging(cmd)
	if err != nil {
		return err
	}
	defer closeLog()
	v := viperForCmd(cmd)

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	info, err := importBank(db, v, args[0])
	if err != nil {
		return err
	}
	if v.GetBool("default") {
		if err := db.SetDefaultBank(info.Name); err != nil {
			return fmt.Errorf("set default bank: %w", err)
		}
		slog.Info("default bank set", "name", info.Name)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d rows\n", info.Name, info.Rows)
	return nil
}

// importBank stores a bank file in the catalog. Unchanged files are skipped;
// a changed file under an existing name needs --replace.
func importBank(db *store.Store, v *viper.Viper, path string) (model.BankInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.BankInfo{}, fmt.Errorf("read %s: %w", path, err)
	}
	name := v.GetString("name")
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	info := model.BankInfo{Name: name, Source: path, Hash: sha256sum(data)}

	existing, err := db.GetBank(name)
	if err != nil {
		return info, fmt.Errorf("check import status for %s: %w", path, err)
	}
	if existing != nil {
		if existing.Hash == info.Hash {
			slog.Info("bank file unchanged, skipping", "path", path, "name", name)
			return *existing, nil
		}
		if !v.GetBool("replace") {
			return info, fmt.Errorf("bank %q already imported from a different file version; use --replace", name)
		}
	}

	rows, err := sheet.Open(path)
	if err != nil {
		return info, fmt.Errorf("parse %s: %w", path, err)
	}
	b, err := bank.Loader{SkipMalformed: v.GetBool("skip-malformed")}.Load(rows)
	if err != nil {
		return info, fmt.Errorf("load bank %s: %w", path, err)
	}
	records, err := sheet.Strings(rows)
	if err != nil {
		return info, fmt.Errorf("parse %s: %w", path, err)
	}

	if existing != nil {
		if err := db.DeleteBank(name); err != nil {
			return info, fmt.Errorf("replace bank %s: %w", name, err)
		}
	}
	id, err := db.ImportBank(info, records)
	if err != nil {
		return info, fmt.Errorf("import %s: %w", path, err)
	}
	info.ID = id
	info.Rows = len(records)
	slog.Info("imported questions", "path", path, "name", name, "count", b.Len(), "skipped", len(b.Skipped()))
	return info, nil
}

func runBanks(cmd *cobra.Command, _ []string) error {
	closeLog, err := setupLogging(cmd)
	if err != nil {
		return err
	}
	defer closeLog()
	v := viperForCmd(cmd)

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if name := v.GetString("delete"); name != "" {
		if err := db.DeleteBank(name); err != nil {
			return fmt.Errorf("delete bank: %w", err)
		}
		if def, _ := db.DefaultBank(); def == name {
			if err := db.SetDefaultBank(""); err != nil {
				return fmt.Errorf("clear default bank: %w", err)
			}
		}
		slog.Info("deleted bank", "name", name)
		return nil
	}

	banks, err := db.ListBanks()
	if err != nil {
		return fmt.Errorf("list banks: %w", err)
	}
	def, err := db.DefaultBank()
	if err != nil {
		return fmt.Errorf("read default bank: %w", err)
	}
	return printBanks(cmd.OutOrStdout(), banks, def)
}

func printBanks(out io.Writer, banks []model.BankInfo, def string) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tROWS\tIMPORTED\tSOURCE")
	for _, b := range banks {
		name := b.Name
		if name == def {
			name += " *"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", name, b.Rows, b.ImportedAt.Format("2006-01-02 15:04"), b.Source)
	}
	return tw.Flush()
}

var errCheckFailed = errors.New("bank has problems")

func runCheck(cmd *cobra.Command, args []string) error {
	closeLog, err := setupLogging(cmd)
	if err != nil {
		return err
	}
	defer closeLog()
	v := viperForCmd(cmd)

	rows, source, err := openRows(v, args)
	if err != nil {
		return err
	}
	problems, err := checkRows(cmd.OutOrStdout(), rows)
	if err != nil {
		return fmt.Errorf("check %s: %w", source, err)
	}
	if problems > 0 {
		return fmt.Errorf("%s: %d problem(s): %w", source, problems, errCheckFailed)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", source)
	return nil
}

// checkRows loads rows leniently and prints every skipped row and lint issue.
func checkRows(out io.Writer, rows []sheet.Row) (int, error) {
	b, err := bank.Loader{SkipMalformed: true}.Load(rows)
	if err != nil {
		return 0, err
	}
	problems := 0
	for _, e := range b.Skipped() {
		fmt.Fprintln(out, e.Error())
		problems++
	}
	for _, issue := range bank.Lint(b) {
		fmt.Fprintln(out, issue.String())
		problems++
	}
	fmt.Fprintf(out, "%d questions, %d problem(s)\n", b.Len(), problems)
	return problems, nil
}

func sha256sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
