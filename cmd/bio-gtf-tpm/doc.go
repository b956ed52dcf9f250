/*
Given a GTF gene annotation and an expression matrix keyed by gene_id,
bio-gtf-tpm prepends each matrix row with the chromosome, start and end of its
gene, drops rows on chromosomes that are irrelevant at the requested filter
tier, and writes the rows ordered by genomic position.

Filter tiers are cumulative:

  0  keep everything
  1  drop genes missing from the annotation
  2  drop chromosomes without the "chr" prefix
  3  drop chrX, chrY and chrM
  4  keep chr1..chr22 only, written without the "chr" prefix (default)

Sample usage:
bio-gtf-tpm \
    -gtf gencode.v38.annotation.gtf.gz \
    -tpm salmon.tpm.tsv \
    -output tpm.bed.tsv \
    -filter 3 \
    -threads 8
*/
package main
