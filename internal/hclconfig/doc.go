// Package hclconfig is the HCL front end of the configuration model. A run is
// described by one or more .hcl files; blocks from later files override
// settings from earlier ones, while samples, tools and comparisons
// accumulate.
//
//	general {
//	  assembly = "hg19"
//	  methylation_calling {
//	    minimum_coverage = 10
//	    minimum_quality  = 20
//	  }
//	}
//
//	locations {
//	  output_dir  = "out"
//	  input_dir   = env.READS_DIR
//	  genome_dir  = "/data/genomes/${lower("HG19")}"
//	}
//
//	tool "bismark" {
//	  args  = "-N 0 -L 20"
//	  cores = 4
//	}
//
//	sample "s1" {
//	  files     = ["s1.fq.gz"]
//	  treatment = "A"
//	}
//
//	comparison {
//	  treatments = ["A", "B"]
//	}
//
// Expressions may read environment variables through the env object and call
// the upper, lower, join, format, concat and trimspace functions.
package hclconfig
