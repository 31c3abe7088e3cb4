//
// Copyright 2018-2025 Cristian Maglie. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//

// Package retriever is a client for remote data-retrieval services: it
// submits a request describing a dataset, polls the service until the job
// is completed and downloads the resulting file.
//
// A typical use is:
//
//	client, err := retriever.NewClient(retriever.Config{
//		Endpoint: "https://cds.example.org/api/v2",
//		APIKey:   "1234:abcd-efgh",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	err = client.Retrieve(ctx, "reanalysis-era5-single-levels", retriever.JobRequest{
//		"variable": "2m_temperature",
//		"format":   "grib",
//	}, "download.grib")
//
// The rcfile sub-package resolves Endpoint and APIKey from the environment
// and from the ~/.cdsapirc file.
package retriever
