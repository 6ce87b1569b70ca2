package domain

// DescriptionMaxLength bounds the product description; it matches the
// VARCHAR(250) column in the products table.
const DescriptionMaxLength = 250
