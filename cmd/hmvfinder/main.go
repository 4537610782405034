package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"hmvfinder/internal"
	"hmvfinder/internal/catalog"
	"hmvfinder/internal/compare"
	"hmvfinder/internal/config"
	"hmvfinder/internal/criteria"
	"hmvfinder/internal/logger"
	"hmvfinder/internal/registry"
	"hmvfinder/internal/search"
	"hmvfinder/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)

	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	svc, err := catalog.NewService(db, cfg, log)
	must(err)

	ctx := context.Background()

	cmd := os.Args[1]
	switch cmd {
	case "catalog:sync":
		count, err := svc.Refresh(ctx)
		must(err)
		stored, err := db.CountProducts()
		must(err)
		fmt.Printf("catalog sync complete: %d products fetched, %d stored\n", count, stored)

	case "search":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		answersPath := fs.String("answers", "", "questionnaire answers JSON file")
		groups := fs.String("groups", "", "comma-separated category prefixes")
		filters := fs.String("filters", "", "comma-separated key=value filters")
		page := fs.Int("page", 1, "result page")
		pageSize := fs.Int("pageSize", 0, "page size")
		category := fs.String("category", "", "drill-down category prefix")
		features := fs.String("features", "", "comma-separated feature codes (AND)")
		_ = fs.Parse(os.Args[2:])

		crit, err := buildCriteria(*answersPath, *groups, *filters)
		must(err)

		engine := search.NewEngine(svc, cfg, log)
		result, err := engine.Search(ctx, crit, search.Options{
			Page:           *page,
			PageSize:       *pageSize,
			CategoryFilter: *category,
			FeatureFilters: splitList(*features),
		})
		must(err)
		printResult(result)

	case "compare":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		ids := fs.String("ids", "", "comma-separated product ids (2-3)")
		categoryFlag := fs.String("category", "", "category prefix of the shortlist")
		out := fs.String("out", "", "optional output xlsx path")
		_ = fs.Parse(os.Args[2:])

		idList := splitList(*ids)
		if len(idList) < 2 || len(idList) > 3 {
			must(fmt.Errorf("--ids requires 2-3 product ids"))
		}
		if *categoryFlag != "" && !registry.Known(*categoryFlag) {
			fmt.Fprintf(os.Stderr, "warning: category %s is not in the registry, using generic extraction\n", *categoryFlag)
		}

		records, _, err := svc.Catalog(ctx)
		must(err)
		items := pickByID(records, idList)
		if len(items) != len(idList) {
			must(fmt.Errorf("unknown product id in %s", *ids))
		}

		items, err = svc.EnrichDetails(ctx, items)
		must(err)

		fields := compare.DiscoverFields(items, *categoryFlag)
		specs := make([]internal.ExtractedSpec, len(items))
		for i, item := range items {
			specs[i] = compare.ExtractFields(item, fields, *categoryFlag)
		}

		if strings.TrimSpace(*out) != "" {
			must(compare.ExportComparisonToXLSX(fields, items, specs, *out))
			fmt.Printf("comparison exported: fields=%d items=%d output=%s\n", len(fields), len(items), *out)
			return
		}
		printComparison(fields, items, specs)

	case "categories":
		index, err := svc.TreeIndex(ctx)
		must(err)
		for code := range index {
			fmt.Printf("%s\t%s\n", code, registry.Name(code))
		}

	default:
		usage()
		os.Exit(1)
	}
}

func buildCriteria(answersPath, groups, filters string) (internal.SearchCriteria, error) {
	if strings.TrimSpace(answersPath) != "" {
		blob, err := os.ReadFile(answersPath)
		if err != nil {
			return internal.SearchCriteria{}, err
		}
		var raw []struct {
			Question string `json:"question"`
			Value    any    `json:"value"`
		}
		if err := json.Unmarshal(blob, &raw); err != nil {
			return internal.SearchCriteria{}, err
		}
		answers := make([]internal.Answer, 0, len(raw))
		for _, entry := range raw {
			answers = append(answers, internal.Answer{QuestionID: entry.Question, Value: entry.Value})
		}
		return criteria.Build(answers), nil
	}

	crit := internal.SearchCriteria{
		ProductGroups: splitList(groups),
		Filters:       map[string]any{},
	}
	for _, pair := range splitList(filters) {
		key, value, found := strings.Cut(pair, "=")
		if !found {
			continue
		}
		switch value {
		case "true":
			crit.Filters[key] = true
		case "false":
		default:
			crit.Filters[key] = value
		}
	}
	if len(crit.ProductGroups) == 0 && len(crit.Filters) == 0 {
		return internal.SearchCriteria{}, fmt.Errorf("--answers or --groups/--filters required")
	}
	return crit, nil
}

func pickByID(records []internal.ProductRecord, ids []string) []internal.ProductRecord {
	byID := make(map[string]internal.ProductRecord, len(records))
	for _, record := range records {
		byID[record.ID] = record
	}
	out := make([]internal.ProductRecord, 0, len(ids))
	for _, id := range ids {
		if record, ok := byID[id]; ok {
			out = append(out, record)
		}
	}
	return out
}

func printResult(result internal.SearchResult) {
	fmt.Printf("total=%d page=%d/%d\n", result.Total, result.Page, result.PageCount)
	for _, facet := range result.CategoryFacets {
		fmt.Printf("  [%s] %s (%d)\n", facet.Code, facet.Label, facet.Count)
	}
	for _, product := range result.Products {
		manufacturer := ""
		if product.Manufacturer != nil {
			manufacturer = " - " + *product.Manufacturer
		}
		fmt.Printf("%s  %s%s\n", product.Code, product.Name, manufacturer)
	}
}

func printComparison(fields []internal.ComparisonField, items []internal.ProductRecord, specs []internal.ExtractedSpec) {
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.Name
	}
	fmt.Printf("merkmal\t%s\n", strings.Join(names, "\t"))
	for _, field := range fields {
		values := make([]string, len(items))
		for i := range items {
			values[i] = specs[i][field.Key]
		}
		fmt.Printf("%s\t%s\n", field.Label, strings.Join(values, "\t"))
	}
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func usage() {
	fmt.Println("usage: hmvfinder <command>")
	fmt.Println("commands:")
	fmt.Println("  catalog:sync")
	fmt.Println("  search --answers=answers.json | --groups=13.20 --filters=aufladbar=true [--page=1] [--pageSize=20] [--category=13.20.03] [--features=aufladbar,bluetooth]")
	fmt.Println("  compare --ids=id1,id2[,id3] [--category=13.20] [--out=./out/vergleich.xlsx]")
	fmt.Println("  categories")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
