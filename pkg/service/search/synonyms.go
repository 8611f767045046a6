package search

import "strings"

// synonyms maps colloquial Argentine Spanish terms to the category and tag
// vocabulary the catalog actually uses. Keys are matched against normalized
// query tokens; values are appended to the query before scoring or
// embedding.
// IsCategoryTerm reports whether a normalized token names a known business
// category or trade. Used to tell fresh searches apart from refinements of
// the previous one.
func IsCategoryTerm(token string) bool {
	_, ok := synonyms[token]
	return ok
}

// HasCategoryPrefix reports whether a token of at least four characters
// shares a prefix with any known category term, in either direction.
// "pizzerias" matches "pizza"; "farm" matches "farmacia".
func HasCategoryPrefix(token string) bool {
	if len(token) < 4 {
		return false
	}
	for term := range synonyms {
		if strings.HasPrefix(token, term) || strings.HasPrefix(term, token) {
			return true
		}
	}
	return false
}

var synonyms = map[string][]string{
	// Gastronomía
	"pizza":        {"pizzeria", "pizzería"},
	"pizzas":       {"pizzeria", "pizzería"},
	"fugazzeta":    {"pizzeria", "pizzería"},
	"muzzarella":   {"pizzeria", "pizzería"},
	"empanada":     {"empanadas", "gastronomia", "gastronomía"},
	"empanadas":    {"gastronomia", "gastronomía", "pizzeria", "pizzería"},
	"hamburguesa":  {"hamburgueseria", "hamburguesería", "hamburguesas"},
	"hamburguesas": {"hamburgueseria", "hamburguesería"},
	"burger":       {"hamburgueseria", "hamburguesería", "hamburguesas"},
	"sushi":        {"sushi", "japones", "japonés", "rolls"},
	"rolls":        {"sushi", "japones"},
	"helado":       {"heladeria", "heladería"},
	"helados":      {"heladeria", "heladería"},
	"facturas":     {"panaderia", "panadería"},
	"pan":          {"panaderia", "panadería"},
	"medialunas":   {"panaderia", "panadería", "cafeteria", "cafetería"},
	"torta":        {"panaderia", "panadería", "pasteleria"},
	"tortas":       {"panaderia", "panadería", "pasteleria"},
	"cafe":         {"cafeteria", "cafetería", "cafe", "café"},
	"cafecito":     {"cafeteria", "cafetería", "cafe", "café"},
	"desayuno":     {"cafeteria", "cafetería", "cafe", "café", "brunch"},
	"merienda":     {"cafeteria", "cafetería", "cafe", "café"},
	"brunch":       {"cafeteria", "cafetería", "cafe", "café", "brunch"},
	"alfajor":      {"alfajores", "havanna", "kiosco"},
	"alfajores":    {"havanna", "kiosco", "chocolate"},
	"chocolate":    {"havanna", "kiosco", "cafeteria"},
	"carne":        {"carniceria", "carnicería", "asado"},
	"asado":        {"carniceria", "carnicería", "parrilla", "restaurante"},
	"achuras":      {"carniceria", "carnicería"},
	"vacio":        {"carniceria", "carnicería"},
	"pollo":        {"carniceria", "carnicería", "granja"},
	"verdura":      {"verduleria", "verdulería"},
	"verduras":     {"verduleria", "verdulería"},
	"fruta":        {"verduleria", "verdulería", "frutas"},
	"frutas":       {"verduleria", "verdulería"},
	"organico":     {"verduleria", "verdulería", "organico"},
	"comer":        {"gastronomia", "gastronomía", "restaurante"},
	"comida":       {"gastronomia", "gastronomía", "restaurante"},
	"cenar":        {"gastronomia", "gastronomía", "restaurante"},
	"almorzar":     {"gastronomia", "gastronomía", "restaurante", "almuerzo"},
	"morfi":        {"gastronomia", "gastronomía", "restaurante"},
	"parrilla":     {"parrilla", "restaurante", "asado", "carne"},
	"pastas":       {"restaurante", "pastas"},
	"milanesa":     {"restaurante", "milanesas"},
	"milanesas":    {"restaurante"},
	"birra":        {"cerveceria", "cervecería", "bar", "cerveza"},
	"cerveza":      {"cerveceria", "cervecería", "bar", "cerveza artesanal"},
	"trago":        {"bar", "cerveceria"},
	"tragos":       {"bar", "cerveceria"},
	"picada":       {"bar", "cerveceria", "picadas"},
	"picadas":      {"bar", "cerveceria"},

	// Salud
	"remedio":      {"farmacia", "medicamentos"},
	"remedios":     {"farmacia", "medicamentos"},
	"medicamento":  {"farmacia", "medicamentos"},
	"medicamentos": {"farmacia"},
	"pastilla":     {"farmacia", "medicamentos"},
	"pastillas":    {"farmacia", "medicamentos"},
	"perfumeria":   {"farmacia", "farmacity", "cosmeticos"},
	"cosmeticos":   {"farmacia", "farmacity", "perfumeria"},
	"oculista":     {"optica", "óptica", "anteojos", "lentes"},
	"anteojos":     {"optica", "óptica"},
	"lentes":       {"optica", "óptica"},

	// Mascotas
	"veterinario": {"veterinaria", "mascotas"},
	"perro":       {"veterinaria", "petshop", "pet shop", "mascotas"},
	"gato":        {"veterinaria", "petshop", "pet shop", "mascotas"},
	"mascota":     {"veterinaria", "petshop", "pet shop", "mascotas"},
	"mascotas":    {"veterinaria", "petshop", "pet shop"},
	"alimento":    {"petshop", "pet shop", "veterinaria"},

	// Servicios del hogar
	"plomero":       {"plomeria", "plomería"},
	"caño":          {"plomeria", "plomería", "plomero"},
	"cañeria":       {"plomeria", "plomería", "plomero"},
	"agua":          {"plomeria", "plomería", "plomero"},
	"electricista":  {"electricidad", "electrico"},
	"enchufe":       {"electricidad", "electricista"},
	"luz":           {"electricidad", "electricista"},
	"cortocircuito": {"electricidad", "electricista"},
	"albañil":       {"albañileria", "albañilería", "construccion"},
	"obra":          {"albañileria", "albañilería", "construccion"},
	"reforma":       {"albañileria", "albañilería", "construccion"},
	"construccion":  {"albañileria", "albañilería"},
	"llave":         {"cerrajeria", "cerrajería", "cerrajero"},
	"cerradura":     {"cerrajeria", "cerrajería", "cerrajero"},
	"cerrajero":     {"cerrajeria", "cerrajería"},
	"pintar":        {"pintura", "pintor"},
	"pintor":        {"pintura"},
	"pasto":         {"jardineria", "jardinería", "jardinero"},
	"jardin":        {"jardineria", "jardinería", "jardinero"},
	"poda":          {"jardineria", "jardinería", "jardinero"},
	"jardinero":     {"jardineria", "jardinería"},
	"gas":           {"gasista"},
	"estufa":        {"gasista"},
	"calefon":       {"gasista", "plomeria"},
	"calefaccion":   {"gasista"},
	"aire":          {"aire acondicionado"},
	"split":         {"aire acondicionado"},
	"acondicionado": {"aire acondicionado"},
	"mudanza":       {"flete", "fletes", "mudanza"},
	"mudanzas":      {"flete", "fletes"},
	"flete":         {"fletes", "mudanza"},

	// Compras
	"coca":         {"kiosco", "bebidas"},
	"golosinas":    {"kiosco"},
	"cigarrillos":  {"kiosco"},
	"snacks":       {"kiosco"},
	"galletitas":   {"kiosco", "almacen"},
	"bebida":       {"kiosco", "bebidas"},
	"bebidas":      {"kiosco"},
	"ferreteria":   {"ferreteria", "herramientas"},
	"herramienta":  {"ferreteria", "herramientas"},
	"herramientas": {"ferreteria"},
	"tornillo":     {"ferreteria", "tornillos"},
	"tornillos":    {"ferreteria"},
	"clavo":        {"ferreteria"},
	"clavos":       {"ferreteria"},
	"pintura":      {"ferreteria", "pintura"},
	"materiales":   {"ferreteria", "construccion", "corralon"},
	"corralon":     {"ferreteria", "construccion", "materiales"},
	"arena":        {"ferreteria", "construccion", "materiales"},

	// Fitness
	"gimnasio": {"gimnasio", "fitness", "musculacion"},
	"gym":      {"gimnasio", "fitness", "musculacion"},
	"crossfit": {"crossfit", "funcional", "gimnasio"},
	"entrenar": {"gimnasio", "fitness", "crossfit"},
	"spinning": {"gimnasio", "spinning"},
	"yoga":     {"gimnasio", "yoga"},
	"pileta":   {"gimnasio", "pileta", "natacion"},
	"natacion": {"gimnasio", "pileta"},
	"paddle":   {"paddle", "tenis"},
	"tenis":    {"tenis", "paddle"},

	// Estética
	"peluqueria": {"peluqueria", "peluquería", "corte"},
	"peluquero":  {"peluqueria", "peluquería"},
	"corte":      {"peluqueria", "peluquería", "barberia", "barbería"},
	"tintura":    {"peluqueria", "peluquería", "color"},
	"barberia":   {"barberia", "barbería", "barba"},
	"barbero":    {"barberia", "barbería", "barba"},
	"barba":      {"barberia", "barbería"},
	"uñas":       {"estetica", "estética"},
	"depilacion": {"estetica", "estética"},

	// Lavadero
	"lavadero":   {"lavadero", "lavanderia"},
	"lavanderia": {"lavadero", "lavanderia"},
	"lavar":      {"lavadero", "lavanderia"},

	// Vehículos
	"auto":     {"mecanico", "mecánico", "taller"},
	"mecanico": {"mecanico", "mecánico", "taller"},
	"rueda":    {"gomeria", "gomería"},
	"goma":     {"gomeria", "gomería"},
	"pinchada": {"gomeria", "gomería"},
	"nafta":    {"estacion de servicio", "ypf", "shell"},
}
