package content

const productProjection = `{
  _id,
  title,
  "slug": slug.current,
  size,
  description,
  benefits,
  image,
  price,
  salePrice,
  inStock
}`

const (
	productsQuery      = `*[_type == "product"] | order(title asc)` + productProjection
	singleProductQuery = `*[_type == "product" && slug.current == $slug][0]` + productProjection
	productSlugsQuery  = `*[_type == "product" && defined(slug.current)][].slug.current`
	pageSlugsQuery     = `*[_type == "page" && defined(slug.current)][].slug.current`
	pageBySlugQuery    = `*[_type == "page" && slug.current == $slug][0]{
  _id, title, "slug": slug.current, content
}`
)
