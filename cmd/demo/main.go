// Command demo seeds the configured store with a sample project.
package main

import (
	"context"
	"errors"
	"fmt"

	"tableflip.dev/rowcount/pkg/app"
	"tableflip.dev/rowcount/pkg/logging"
	"tableflip.dev/rowcount/pkg/printers"
	"tableflip.dev/rowcount/pkg/store"
)

const sampler = `Cast on 24 stitches.
Row 1 (RS): *k2, p2; rep from * to end.
Row 2: *k2, p2; rep from * to end.
Repeat rows 1-2 3 times
Rows 3-6: knit.
Row 7: k1, *yo, k2tog; rep from * to last st, k1.
Row 8: purl.
Repeat rows 7-8 until piece measures 20cm
Bind off loosely.
Weave in ends and block.`

func main() {
	ctx := context.Background()

	kv, err := store.Load(nil)
	if err != nil {
		panic(err)
	}
	defer kv.Close()

	svc := app.New(kv, logging.Discard())
	_, err = svc.Create(ctx, app.CreateRequest{Title: "Sampler", Pattern: sampler})
	if err != nil && !errors.Is(err, app.ErrDuplicateTitle) {
		panic(err)
	}

	all, err := svc.List(ctx)
	if err != nil {
		panic(err)
	}
	pp := printers.PrettyPrint{}
	pp.Projects(all)
	fmt.Println("Open it with: rowcount knit Sampler")
}
